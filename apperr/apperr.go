// Package apperr is the dashboard's closed error taxonomy.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	// Unauthenticated never leaves the gateway/login-flow boundary as an error.
	Unauthenticated    Kind = "unauthenticated"
	RequestFailed      Kind = "request_failed"
	NetworkUnreachable Kind = "network_unreachable"
	ValidationFailed   Kind = "validation_failed"
)

type Error struct {
	Kind      Kind
	Status    int
	PublicMsg string
	Fields    map[string]string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.PublicMsg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.PublicMsg)
}

func (e *Error) Unwrap() error { return e.Err }

func RequestFailedErr(status int, publicMsg string) *Error {
	return &Error{Kind: RequestFailed, Status: status, PublicMsg: publicMsg}
}

func NetworkErr(err error) *Error {
	return &Error{Kind: NetworkUnreachable, PublicMsg: "Could not reach the server", Err: err}
}

func ValidationErr(publicMsg string, fields map[string]string) *Error {
	return &Error{Kind: ValidationFailed, PublicMsg: publicMsg, Fields: fields}
}

func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	if ae, ok := As(err); ok {
		return ae.Kind
	}
	return ""
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case ValidationFailed:
		return http.StatusBadRequest
	case RequestFailed:
		return http.StatusBadGateway
	case NetworkUnreachable:
		return http.StatusServiceUnavailable
	case Unauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text shown in the error notification.
func PublicMessage(err error, fallback string) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return fallback
}
