package service

import (
	"errors"
	"fmt"
)

// Kind classifies client-facing errors. Anything that is not an *Error is an
// infrastructure failure.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuthentication
	KindAuthorization
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Messages sent to clients. Tests and clients match on these exact strings.
const (
	MsgUsernameTaken    = "Username already taken"
	MsgBadCredentials   = "Incorrect user name or password"
	MsgUserNotFound     = "User does not exist"
	MsgUpdateEmpty      = "Request body must contain either 'user_name' or 'bank'"
	MsgNegativeBank     = "Bank must not be negative"
	MsgUnauthorized     = "Unauthorized request"
	missingFieldMessage = "Missing '%s' in request body"
)

// Error is a domain error whose Message is safe to return to the client.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func ValidationError(msg string) error     { return &Error{Kind: KindValidation, Message: msg} }
func ConflictError(msg string) error       { return &Error{Kind: KindConflict, Message: msg} }
func AuthenticationError(msg string) error { return &Error{Kind: KindAuthentication, Message: msg} }
func AuthorizationError(msg string) error  { return &Error{Kind: KindAuthorization, Message: msg} }
func NotFoundError(msg string) error       { return &Error{Kind: KindNotFound, Message: msg} }

// MissingFieldError reports a required request body field that was absent.
func MissingFieldError(field string) error {
	return ValidationError(MissingFieldMessage(field))
}

// MissingFieldMessage is the client text for an absent request body field.
func MissingFieldMessage(field string) string {
	return fmt.Sprintf(missingFieldMessage, field)
}

// AsError unwraps err into a domain *Error when it is one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
