// Package imei validates device identifiers before they reach the regulator.
package imei

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Length is the number of digits in a valid identifier.
const Length = 15

var pattern = regexp.MustCompile(`^[0-9]{15}$`)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("imei must be exactly 15 digits")

// ValidationError reports the rejected input.
type ValidationError struct {
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid imei %q: %s", e.Value, ErrInvalid.Error())
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// IMEI is a validated 15-digit identifier. The zero value means "unknown".
type IMEI struct {
	value string
}

// Parse trims surrounding whitespace and checks the identifier is exactly
// fifteen ASCII digits.
func Parse(raw string) (IMEI, error) {
	v := strings.TrimSpace(raw)
	if !pattern.MatchString(v) {
		return IMEI{}, &ValidationError{Value: raw}
	}
	return IMEI{value: v}, nil
}

// Must parses raw and panics on failure. Test fixtures only.
func Must(raw string) IMEI {
	id, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return id
}

func (i IMEI) String() string {
	return i.value
}

// IsZero reports whether the identifier is unknown.
func (i IMEI) IsZero() bool {
	return i.value == ""
}

// MarshalText keeps the identifier a plain string on the wire.
func (i IMEI) MarshalText() ([]byte, error) {
	return []byte(i.value), nil
}

// UnmarshalText validates on decode.
func (i *IMEI) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Validator adapts Parse to the pipeline's validation step.
type Validator struct{}

// Validate never touches the network; ctx is accepted for interface symmetry
// with the other pipeline roles.
func (Validator) Validate(_ context.Context, raw string) (IMEI, error) {
	return Parse(raw)
}
