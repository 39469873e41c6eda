package http

import "errors"

// Result is the outcome of a single Parse call.
type Result uint8

const (
	Success Result = iota
	MethodTooLong
	URLTooLong
	VersionTooLong
	InvalidMethod
	InvalidURL
	InvalidFormat
	InvalidHeaders
	InvalidCRLF
)

// Error definitions, one per failure kind
var (
	ErrMethodTooLong  = errors.New("method too long")
	ErrURLTooLong     = errors.New("url too long")
	ErrVersionTooLong = errors.New("version too long")
	ErrInvalidMethod  = errors.New("invalid method")
	ErrInvalidURL     = errors.New("invalid url")
	ErrInvalidFormat  = errors.New("invalid format")
	ErrInvalidHeaders = errors.New("invalid headers")
	ErrInvalidCRLF    = errors.New("invalid crlf")
	ErrUnknownResult  = errors.New("unknown parse error")
)

var resultErrors = [...]error{
	Success:        nil,
	MethodTooLong:  ErrMethodTooLong,
	URLTooLong:     ErrURLTooLong,
	VersionTooLong: ErrVersionTooLong,
	InvalidMethod:  ErrInvalidMethod,
	InvalidURL:     ErrInvalidURL,
	InvalidFormat:  ErrInvalidFormat,
	InvalidHeaders: ErrInvalidHeaders,
	InvalidCRLF:    ErrInvalidCRLF,
}

// NumResults is the number of defined outcomes, Success included.
const NumResults = len(resultErrors)

// Err returns nil for Success and the matching sentinel error otherwise.
func (r Result) Err() error {
	if int(r) >= len(resultErrors) {
		return ErrUnknownResult
	}
	return resultErrors[r]
}

func (r Result) String() string {
	if r == Success {
		return "success"
	}
	return r.Err().Error()
}

// OK reports whether r is Success.
func (r Result) OK() bool {
	return r == Success
}

// ParseError carries a failed Result through error returns. It unwraps
// to the sentinel for that Result.
type ParseError struct {
	Result Result
}

func (e *ParseError) Error() string {
	return "parse request head: " + e.Result.String()
}

func (e *ParseError) Unwrap() error {
	return e.Result.Err()
}
