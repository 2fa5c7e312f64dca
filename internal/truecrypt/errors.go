package truecrypt

import "fmt"

//go:generate go tool stringer -type=Kind -linecomment
type Kind int8

const (
	kindUnknown         Kind = iota // unknown error
	KindWrongPassword               // incorrect password or not a TrueCrypt volume
	KindInvalidHeader               // invalid volume header
	KindMalformedHeader             // malformed volume header
)

// Error is returned for volume headers that cannot be used. I/O errors
// are returned as they are, without an Error wrapper.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches e against the sentinel errors below, which carry a Kind
// and no cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrWrongPassword   = &Error{Kind: KindWrongPassword}
	ErrInvalidHeader   = &Error{Kind: KindInvalidHeader}
	ErrMalformedHeader = &Error{Kind: KindMalformedHeader}
)
