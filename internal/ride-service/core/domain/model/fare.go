package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Fare is a money amount in cents, stored as NUMERIC(10,2).
type Fare int64

// MaxFare is the largest value that fits NUMERIC(10,2).
const MaxFare Fare = 99999999_99

var (
	ErrFareSyntax = errors.New("fare must be a decimal number with at most two fractional digits")
	ErrFareRange  = errors.New("fare out of range")
)

// maxFareExponent bounds the exponent accepted in "3.49e2" style input.
const maxFareExponent = 20

// ParseFare parses "349", "349.5", "349.50" or "3.495e2" without going
// through float64.
func ParseFare(s string) (Fare, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrFareSyntax
	}
	if s[0] == '-' {
		return 0, ErrFareRange
	}
	s = strings.TrimPrefix(s, "+")
	if strings.ContainsAny(s, "eE") {
		plain, err := expandExponent(s)
		if err != nil {
			return 0, err
		}
		s = plain
	}

	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" && (!hasDot || frac == "") {
		return 0, ErrFareSyntax
	}
	if len(frac) > 2 || (hasDot && frac == "") {
		return 0, ErrFareSyntax
	}
	for _, part := range []string{whole, frac} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return 0, ErrFareSyntax
			}
		}
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if len(strings.TrimLeft(whole, "0")) > 8 {
		return 0, ErrFareRange
	}
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrFareSyntax
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrFareSyntax
	}
	f := Fare(units*100 + cents)
	if f > MaxFare {
		return 0, ErrFareRange
	}
	return f, nil
}

// expandExponent rewrites "3.495e2" as "349.5" by moving the decimal point.
// Trailing fractional zeros are dropped, so "1.000e1" is "10".
func expandExponent(s string) (string, error) {
	mant, rawExp, _ := strings.Cut(strings.ToLower(s), "e")
	exp, err := strconv.Atoi(rawExp)
	if err != nil {
		return "", ErrFareSyntax
	}
	if exp > maxFareExponent {
		return "", ErrFareRange
	}
	if exp < -maxFareExponent {
		return "", ErrFareSyntax
	}

	whole, frac, hasDot := strings.Cut(mant, ".")
	if hasDot && frac == "" {
		return "", ErrFareSyntax
	}
	digits := whole + frac
	if digits == "" {
		return "", ErrFareSyntax
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", ErrFareSyntax
		}
	}

	point := len(whole) + exp
	if point <= 0 {
		digits = strings.Repeat("0", 1-point) + digits
		point = 1
	}
	if point >= len(digits) {
		return digits + strings.Repeat("0", point-len(digits)), nil
	}
	rest := strings.TrimRight(digits[point:], "0")
	if rest == "" {
		return digits[:point], nil
	}
	return digits[:point] + "." + rest, nil
}

func (f Fare) Cents() int64 {
	return int64(f)
}

func (f Fare) String() string {
	return fmt.Sprintf("%d.%02d", int64(f)/100, int64(f)%100)
}

func (f Fare) MarshalJSON() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and numeric strings.
func (f *Fare) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return ErrFareSyntax
		}
	}
	v, err := ParseFare(raw)
	if err != nil {
		return err
	}
	*f = v
	return nil
}
