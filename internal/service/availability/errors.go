package availability

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("availability: service not found")

	// ErrInternal возвращается при внутренних ошибках расчета
	ErrInternal = errors.New("availability: internal error")
)
