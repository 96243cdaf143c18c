package handlers

import "net/http"

type ErrorKind string

const (
	KindInvalidArgument    ErrorKind = "invalid-argument"
	KindFailedPrecondition ErrorKind = "failed-precondition"
	KindUnauthenticated    ErrorKind = "unauthenticated"
	KindInternal           ErrorKind = "internal"
)

type kindInfo struct {
	status   string
	httpCode int
}

var kindTable = map[ErrorKind]kindInfo{
	KindInvalidArgument:    {"INVALID_ARGUMENT", http.StatusBadRequest},
	KindFailedPrecondition: {"FAILED_PRECONDITION", http.StatusBadRequest},
	KindUnauthenticated:    {"UNAUTHENTICATED", http.StatusUnauthorized},
	KindInternal:           {"INTERNAL", http.StatusInternalServerError},
}

// CallableError is the only error shape a callable endpoint returns to its caller.
type CallableError struct {
	Kind    ErrorKind
	Message string
	Details string
}

func (e *CallableError) Error() string {
	if e.Details != "" {
		return string(e.Kind) + ": " + e.Message + ": " + e.Details
	}
	return string(e.Kind) + ": " + e.Message
}

// Status is the wire status name, INTERNAL for unknown kinds.
func (e *CallableError) Status() string {
	if info, ok := kindTable[e.Kind]; ok {
		return info.status
	}
	return kindTable[KindInternal].status
}

func (e *CallableError) HTTPCode() int {
	if info, ok := kindTable[e.Kind]; ok {
		return info.httpCode
	}
	return http.StatusInternalServerError
}

func InvalidArgument(msg string) *CallableError {
	return &CallableError{Kind: KindInvalidArgument, Message: msg}
}

func FailedPrecondition(msg string) *CallableError {
	return &CallableError{Kind: KindFailedPrecondition, Message: msg}
}

func Unauthenticated(msg string) *CallableError {
	return &CallableError{Kind: KindUnauthenticated, Message: msg}
}

// Internal carries details only when the endpoint is allowed to reveal them.
func Internal(msg, details string) *CallableError {
	return &CallableError{Kind: KindInternal, Message: msg, Details: details}
}
