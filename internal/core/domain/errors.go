package domain

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a domain failure. Every failure raised by the core maps to
// exactly one kind; KindInternal is reserved for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindUserNotFound
	KindAnnouncementNotFound
	KindUnauthorized
	KindValidation
)

var kindNames = map[Kind]string{
	KindInternal:             "internal",
	KindUserNotFound:         "user_not_found",
	KindAnnouncementNotFound: "announcement_not_found",
	KindUnauthorized:         "unauthorized_access",
	KindValidation:           "validation_error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Status returns the HTTP status code the kind is rendered with.
func (k Kind) Status() int {
	switch k {
	case KindUserNotFound, KindAnnouncementNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// DefaultDetail returns the message used when no detail is supplied.
func (k Kind) DefaultDetail() string {
	switch k {
	case KindUserNotFound:
		return "User not found"
	case KindAnnouncementNotFound:
		return "Announcement not found"
	case KindUnauthorized:
		return "You do not have permission to perform this action"
	case KindValidation:
		return "Validation error"
	default:
		return "Internal server error"
	}
}

// FieldErrors maps a request field name to the messages describing why it was
// rejected.
type FieldErrors map[string][]string

// Add appends msg to the messages for field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Merge copies every message of other into fe.
func (fe FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		fe[field] = append(fe[field], msgs...)
	}
}

// Err returns nil when fe is empty and a validation *Error otherwise.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return NewFieldValidation(fe)
}

func (fe FieldErrors) String() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(fe[f], " "))
	}
	return strings.Join(parts, "; ")
}

// Error is a classified failure produced by core logic.
type Error struct {
	Kind   Kind
	Detail string
	Fields FieldErrors
	Err    error
}

func (e *Error) Error() string {
	msg := e.Message()
	if len(e.Fields) > 0 {
		msg = e.Fields.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the package sentinels work with
// errors.Is regardless of the detail carried.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Message returns the detail, falling back to the kind's default.
func (e *Error) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Kind.DefaultDetail()
}

// Payload is what the response envelope carries under "error": the field map
// for field-level validation failures, the message otherwise.
func (e *Error) Payload() any {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	return e.Message()
}

var (
	ErrUserNotFound         = &Error{Kind: KindUserNotFound}
	ErrAnnouncementNotFound = &Error{Kind: KindAnnouncementNotFound}
	ErrUnauthorized         = &Error{Kind: KindUnauthorized}
	ErrValidation           = &Error{Kind: KindValidation}
)

// Store-level conditions. Services translate these into taxonomy errors; they
// must not reach the HTTP boundary on their own.
var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

func NewUserNotFound(detail string) *Error {
	return &Error{Kind: KindUserNotFound, Detail: detail}
}

func NewAnnouncementNotFound(detail string) *Error {
	return &Error{Kind: KindAnnouncementNotFound, Detail: detail}
}

func NewUnauthorized(detail string) *Error {
	return &Error{Kind: KindUnauthorized, Detail: detail}
}

func NewValidation(detail string) *Error {
	return &Error{Kind: KindValidation, Detail: detail}
}

func NewFieldValidation(fields FieldErrors) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

// AsError extracts the *Error carried by err, if any.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
