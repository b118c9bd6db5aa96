package create_series

import "errors"

var (
	// ErrSeriesEmpty возвращается, когда ни одно вхождение серии не удалось создать
	ErrSeriesEmpty = errors.New("create_series: no occurrence could be booked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_series: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_series: internal error")
)
