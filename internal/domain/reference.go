package domain

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const referenceSuffixLength = 4

var base36 = big.NewInt(36)

// ReferenceGenerator генерирует публичные номера бронирований
type ReferenceGenerator struct {
	random io.Reader
}

// NewReferenceGenerator создает генератор на crypto/rand
func NewReferenceGenerator() *ReferenceGenerator {
	return &ReferenceGenerator{random: rand.Reader}
}

// NewReferenceGeneratorWithSource создает генератор с заданным источником случайности
func NewReferenceGeneratorWithSource(r io.Reader) *ReferenceGenerator {
	return &ReferenceGenerator{random: r}
}

// Generate возвращает номер вида SAL-<unix ms base36>-<4 случайных символа>
func (g *ReferenceGenerator) Generate(now time.Time) (string, error) {
	var suffix strings.Builder
	suffix.Grow(referenceSuffixLength)
	for i := 0; i < referenceSuffixLength; i++ {
		n, err := rand.Int(g.random, base36)
		if err != nil {
			return "", fmt.Errorf("failed to generate booking reference: %w", err)
		}
		suffix.WriteString(strconv.FormatInt(n.Int64(), 36))
	}

	return strings.ToUpper(fmt.Sprintf("%s-%s-%s",
		BookingReferencePrefix,
		strconv.FormatInt(now.UnixMilli(), 36),
		suffix.String(),
	)), nil
}

// IsValidBookingReference проверяет формат номера SAL-<base36>-<4 символа> в верхнем регистре
func IsValidBookingReference(ref string) bool {
	parts := strings.Split(ref, "-")
	if len(parts) != 3 || parts[0] != BookingReferencePrefix {
		return false
	}
	if parts[1] == "" || len(parts[2]) != referenceSuffixLength {
		return false
	}
	for _, part := range parts[1:] {
		for _, r := range part {
			if (r < '0' || r > '9') && (r < 'A' || r > 'Z') {
				return false
			}
		}
	}
	return true
}
