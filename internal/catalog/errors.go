package catalog

import (
	"errors"
	"fmt"
)

// ErrBookIDRequired is returned, without a request being sent, when a book
// operation is given a blank id.
var ErrBookIDRequired = errors.New("book id required")

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Code)
}

// ErrorKind classifies a failed backend call.
type ErrorKind int

const (
	// KindGeneral covers transport failures, 5xx and anything unclassified.
	KindGeneral ErrorKind = iota
	// KindBadRequest covers every 4xx response, including auth failures.
	KindBadRequest
)

func (k ErrorKind) String() string {
	if k == KindBadRequest {
		return "bad request"
	}
	return "general error"
}

// Classify maps err onto the two-way taxonomy used for logging.
func Classify(err error) ErrorKind {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code >= 400 && statusErr.Code < 500 {
		return KindBadRequest
	}
	return KindGeneral
}

// StatusCode extracts the HTTP status from err, or 0 when there is none.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}
