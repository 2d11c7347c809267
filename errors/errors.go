package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Error kinds. A QueryError's Rule holds one of these and its Message is prefixed with it.
const (
	SyntaxError             = "SyntaxError"
	ValidationError         = "ValidationError"
	UnknownFieldError       = "UnknownFieldError"
	UnknownArgumentError    = "UnknownArgumentError"
	MissingArgumentError    = "MissingArgumentError"
	UnknownFragmentError    = "UnknownFragmentError"
	FragmentCycleError      = "FragmentCycleError"
	UndeclaredVariableError = "UndeclaredVariableError"
	VariableCoercionError   = "VariableCoercionError"
	ResolverError           = "ResolverError"
	DeadlineExceededError   = "DeadlineExceededError"
	RateLimitedError        = "RateLimitedError"
)

// QueryError is one entry of a response's "errors" list.
type QueryError struct {
	Message       string                 `json:"message"`
	Locations     []Location             `json:"locations,omitempty"`
	Path          []interface{}          `json:"path"`
	Rule          string                 `json:"-"`
	ResolverError error                  `json:"-"`
	Extensions    map[string]interface{} `json:"extensions,omitempty"`
	err           error
}

type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (a Location) Before(b Location) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Column < b.Column)
}

// Errorf formats a message like fmt.Sprintf. The first argument implementing error is kept as
// the cause and is reachable through errors.Is and errors.As.
func Errorf(format string, a ...interface{}) *QueryError {
	var cause error
	for _, arg := range a {
		if err, ok := arg.(error); ok {
			cause = err
			break
		}
	}
	return &QueryError{
		Message: fmt.Sprintf(format, a...),
		err:     cause,
	}
}

// Kindf builds an error of the given kind. The message reads "<kind>: <detail>".
func Kindf(kind string, format string, a ...interface{}) *QueryError {
	err := Errorf(format, a...)
	err.Message = kind + ": " + err.Message
	err.Rule = kind
	return err
}

// Error renders the message followed by each location, e.g.
// "graphql: SyntaxError: unexpected EOF (line 1, column 5)".
func (err *QueryError) Error() string {
	if err == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("graphql: ")
	b.WriteString(err.Message)
	for _, loc := range err.Locations {
		fmt.Fprintf(&b, " (line %d, column %d)", loc.Line, loc.Column)
	}
	return b.String()
}

// Unwrap prefers the resolver's error over a formatting cause.
func (err *QueryError) Unwrap() error {
	switch {
	case err == nil:
		return nil
	case err.ResolverError != nil:
		return err.ResolverError
	default:
		return err.err
	}
}

// Is reports whether err is a QueryError of the same kind as target. A target without a kind
// never matches by kind.
func (err *QueryError) Is(target error) bool {
	t, ok := target.(*QueryError)
	if !ok || err == nil || t.Rule == "" {
		return false
	}
	return err.Rule == t.Rule
}

// MarshalJSON always emits a path; request-level errors report an empty one.
func (err *QueryError) MarshalJSON() ([]byte, error) {
	type plain QueryError
	p := plain(*err)
	if p.Path == nil {
		p.Path = []interface{}{}
	}
	return json.Marshal(p)
}
