// file: internals/features/school/timetables/service/errors.go
package service

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindContext     ErrorKind = "CONTEXT_ERROR"
	KindForbidden   ErrorKind = "FORBIDDEN"
	KindInvalidTerm ErrorKind = "INVALID_TERM"
	KindValidation  ErrorKind = "VALIDATION_ERROR"
	KindStore       ErrorKind = "STORE_ERROR"
)

// Error: satu-satunya tipe error yang keluar dari engine timetable.
// Field menyimpan nama field input yang salah (khusus validasi).
type Error struct {
	Kind    ErrorKind
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is: cocokkan berdasarkan Kind saja, jadi errors.Is(err, ErrForbidden) jalan
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinel untuk errors.Is
var (
	ErrContext     = &Error{Kind: KindContext}
	ErrForbidden   = &Error{Kind: KindForbidden}
	ErrInvalidTerm = &Error{Kind: KindInvalidTerm}
	ErrValidation  = &Error{Kind: KindValidation}
	ErrStore       = &Error{Kind: KindStore}
)

func contextError(msg string) error {
	return &Error{Kind: KindContext, Message: msg}
}

func forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func invalidTerm(msg string) error {
	return &Error{Kind: KindInvalidTerm, Message: msg}
}

func validationError(field, msg string) error {
	return &Error{Kind: KindValidation, Field: field, Message: msg}
}

func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	// jangan bungkus dua kali
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindStore, Message: op, Err: err}
}

// KindOf: ambil kind dari error apa pun (kosong kalau bukan *Error)
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
