package loomreport

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the command layer can pick an exit code and a
// message without inspecting error strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingConfiguration
	KindTemplateNotFound
	KindMalformedModelOutput
	KindContentBlocked
	KindEmptyModelResponse
	KindNoImagePayload
	KindMisuse
	KindFilesystem
	KindUpstream
)

var kindNames = map[Kind]string{
	KindUnknown:              "unknown",
	KindMissingConfiguration: "missing configuration",
	KindTemplateNotFound:     "template not found",
	KindMalformedModelOutput: "malformed model output",
	KindContentBlocked:       "content blocked",
	KindEmptyModelResponse:   "empty model response",
	KindNoImagePayload:       "no image payload",
	KindMisuse:               "misuse",
	KindFilesystem:           "filesystem",
	KindUpstream:             "upstream",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the error type returned by every loomreport package.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// NewError wraps err with a kind and the operation that failed.
func NewError(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf is NewError with a formatted cause.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return e.Op + ": " + e.Kind.String()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinel errors by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrMissingConfiguration = &Error{Kind: KindMissingConfiguration}
	ErrTemplateNotFound     = &Error{Kind: KindTemplateNotFound}
	ErrMalformedModelOutput = &Error{Kind: KindMalformedModelOutput}
	ErrContentBlocked       = &Error{Kind: KindContentBlocked}
	ErrEmptyModelResponse   = &Error{Kind: KindEmptyModelResponse}
	ErrNoImagePayload       = &Error{Kind: KindNoImagePayload}
	ErrMisuse               = &Error{Kind: KindMisuse}
	ErrFilesystem           = &Error{Kind: KindFilesystem}
	ErrUpstream             = &Error{Kind: KindUpstream}
)

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
