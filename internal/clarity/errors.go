package clarity

import "fmt"

// DecodeError reports malformed serialized input.
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("clarity decode at offset %d: %s", e.Offset, e.Reason)
}

// MismatchError reports a value whose tag differs from the one the caller expected.
type MismatchError struct {
	Want Type
	Got  Type
	// Field is set when the mismatch is inside a tuple.
	Field string
}

func (e *MismatchError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("clarity field %q: want %s, got %s", e.Field, e.Want, e.Got)
	}
	return fmt.Sprintf("clarity value: want %s, got %s", e.Want, e.Got)
}

// MissingFieldError reports a tuple without a required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("clarity tuple: missing field %q", e.Field)
}
