package errs

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthenticated = errors.New("not authorized to access this route")
	ErrForbidden       = errors.New("not permitted")
	ErrConflict        = errors.New("duplicate field value entered")
	ErrDatabase        = errors.New("database error")
	ErrMail            = errors.New("email could not be sent")
	ErrStorage         = errors.New("file storage error")
	ErrGeocoder        = errors.New("geocoder error")
)

// Error attaches a client-facing message to one of the kinds above.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// E builds an error of the given kind with a formatted client message.
func E(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap keeps cause for logging while exposing msg to the client.
func Wrap(kind error, cause error, msg string) error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text safe to send to clients. Unexpected errors
// collapse to "Server Error".
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrUnauthenticated, ErrForbidden, ErrConflict, ErrMail} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "Server Error"
}

var dupIndex = regexp.MustCompile(`index: (\S+) dup key`)

// FromStore translates driver errors into error kinds. Unknown errors are
// wrapped as ErrDatabase.
func FromStore(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Wrap(ErrNotFound, err, "Resource not found")
	}
	if mongo.IsDuplicateKeyError(err) {
		fields := DuplicateFields(err)
		if len(fields) == 0 {
			return Wrap(ErrConflict, err, "Duplicate field value entered")
		}
		return Wrap(ErrConflict, err, "Duplicate field value entered for "+strings.Join(fields, ", "))
	}
	return Wrap(ErrDatabase, err, "Server Error")
}

// DuplicateFields extracts the field names of the violated unique index,
// e.g. "bootcamp_1_user_1" yields [bootcamp user].
func DuplicateFields(err error) []string {
	var msgs []string
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				msgs = append(msgs, e.Message)
			}
		}
	}
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, e := range bwe.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				msgs = append(msgs, e.Message)
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		msgs = append(msgs, ce.Message)
	}
	if len(msgs) == 0 {
		msgs = append(msgs, err.Error())
	}
	for _, msg := range msgs {
		if fields := fieldsFromMessage(msg); len(fields) > 0 {
			return fields
		}
	}
	return nil
}

func fieldsFromMessage(msg string) []string {
	m := dupIndex.FindStringSubmatch(msg)
	if m == nil {
		return nil
	}
	parts := strings.Split(m[1], "_")
	var fields []string
	for i := 0; i+1 < len(parts); i += 2 {
		fields = append(fields, parts[i])
	}
	return fields
}
