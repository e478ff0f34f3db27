// Package money converts between decimal currency strings and integer cents.
// Amounts are stored as cents throughout the app so balance arithmetic stays
// exact under concurrent increments.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var ErrInvalidAmount = errors.New("invalid amount")

const maxWhole = (1<<63 - 1) / 100

// ParseCents parses a signed decimal string ("12.34", "-3.5", "7") into cents.
// Both dot and comma decimal separators are accepted. Anything past the second
// decimal place is rounded half-up.
func ParseCents(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, ErrInvalidAmount
	}

	negative := false
	switch value[0] {
	case '-':
		negative = true
		value = value[1:]
	case '+':
		value = value[1:]
	}
	if value == "" {
		return 0, ErrInvalidAmount
	}

	cents, err := parseUnsignedCents(value)
	if err != nil {
		return 0, err
	}

	if negative {
		return -cents, nil
	}
	return cents, nil
}

// ParseNonNegativeCents parses a decimal string that must not be negative.
// Used for allowance amounts.
func ParseNonNegativeCents(value string) (int64, error) {
	cents, err := ParseCents(value)
	if err != nil {
		return 0, err
	}
	if cents < 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// FormatCents renders cents as a two-decimal string, e.g. 1234 -> "12.34".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func parseUnsignedCents(value string) (int64, error) {
	value = strings.ReplaceAll(value, ",", ".")

	parts := strings.Split(value, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}

	wholePart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if wholePart == "" {
		wholePart = "0"
	}
	if wholePart == "0" && fracPart == "" && len(parts) == 2 {
		return 0, ErrInvalidAmount
	}

	for _, r := range wholePart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if whole > maxWhole {
		return 0, ErrInvalidAmount
	}

	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}

	return whole*100 + frac, nil
}
