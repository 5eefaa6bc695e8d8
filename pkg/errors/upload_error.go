package errors

import (
	stderrors "errors"
	"fmt"
)

const (
	CodeValidation   = "validation_failed"
	CodeDerivation   = "derivation_failed"
	CodeTransfer     = "transfer_failed"
	CodeVerification = "verification_failed"
	CodePersistence  = "persistence_failed"
)

// UploadError kullanıcıya gösterilebilir mesaj + makine kodu taşır.
// Message alanı doğrudan UI'da gösterilir, stack trace içermez.
type UploadError struct {
	Code    string
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

var (
	ErrValidation = func(message string) *UploadError {
		return &UploadError{Code: CodeValidation, Message: message}
	}
	ErrDerivation = func(message string, err error) *UploadError {
		return &UploadError{Code: CodeDerivation, Message: message, Err: err}
	}
	ErrTransfer = func(message string, err error) *UploadError {
		return &UploadError{Code: CodeTransfer, Message: message, Err: err}
	}
	ErrVerification = func(err error) *UploadError {
		return &UploadError{Code: CodeVerification, Message: "Upload verification failed. Please try again.", Err: err}
	}
	ErrPersistence = func(err error) *UploadError {
		return &UploadError{Code: CodePersistence, Message: "Media was stored but its metadata could not be saved. Retry the metadata write.", Err: err}
	}
)

// CodeOf bilinmeyen hatalar için boş string döner.
func CodeOf(err error) string {
	var ue *UploadError
	if stderrors.As(err, &ue) {
		return ue.Code
	}
	return ""
}

// MessageOf kullanıcıya gösterilecek mesajı çıkarır.
func MessageOf(err error) string {
	var ue *UploadError
	if stderrors.As(err, &ue) {
		return ue.Message
	}
	return err.Error()
}

func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
