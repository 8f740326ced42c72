package api

import "errors"

var (
	// ErrTransport means no usable response arrived (connection, TLS, cancelled context).
	ErrTransport = errors.New("transport failure")
	// ErrApplication means the API answered but reported success=false or a non-2xx status.
	ErrApplication = errors.New("application failure")
	// ErrMalformed means the API answered with a payload that does not fit the expected shape.
	ErrMalformed = errors.New("malformed payload")
)

type Failure struct {
	Kind    error
	Message string
}

func (f *Failure) Error() string {
	if f.Message == "" {
		return f.Kind.Error()
	}
	return f.Kind.Error() + ": " + f.Message
}

func (f *Failure) Unwrap() error { return f.Kind }
