// Package apperrors defines the closed set of failures the API can report.
// Every business rule violation is one of the Kind values below; the HTTP
// layer maps kinds to status codes in one place.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind categorises an application error.
type Kind int

const (
	KindUnexpected Kind = iota
	KindUnauthenticated
	KindForbidden
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unexpected"
	}
}

// Error is a tagged application error. Code is stable and machine readable,
// Message is safe to show to API callers.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Reference marks a NotFound raised for an entity referenced by the
	// request body rather than for the addressed resource itself.
	Reference bool
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Unauthenticated builds a 401-class error.
func Unauthenticated(code, message string) *Error {
	return newError(KindUnauthenticated, code, message)
}

// Forbidden builds a 403-class error.
func Forbidden(code, message string) *Error {
	return newError(KindForbidden, code, message)
}

// Validation builds an error for malformed input or a violated business rule.
func Validation(code, message string) *Error {
	return newError(KindValidation, code, message)
}

// NotFound builds an error for a missing primary resource.
func NotFound(code, message string) *Error {
	return newError(KindNotFound, code, message)
}

// MissingReference builds a NotFound for an entity referenced by the request.
func MissingReference(code, message string) *Error {
	e := newError(KindNotFound, code, message)
	e.Reference = true
	return e
}

// Conflict builds an error for uniqueness or scheduling collisions.
func Conflict(code, message string) *Error {
	return newError(KindConflict, code, message)
}

// Unexpected wraps an unclassified failure. Its message is generic.
func Unexpected(cause error) *Error {
	return &Error{
		Kind:    KindUnexpected,
		Code:    "UNEXPECTED",
		Message: "Erro interno do servidor",
		Cause:   cause,
	}
}

// From extracts the application error from err, wrapping anything else as
// Unexpected.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unexpected(err)
}

// Credential store failures.
var (
	ErrEmailAlreadyExists = Conflict("EMAIL_ALREADY_EXISTS", "E-mail já cadastrado")
	ErrInvalidCredentials = Unauthenticated("INVALID_CREDENTIALS", "Credenciais inválidas")
)

// Authorization gate failures.
var (
	ErrMissingToken = Unauthenticated("MISSING_TOKEN", "Token não informado")
	ErrInvalidToken = Unauthenticated("INVALID_TOKEN", "Token inválido")
	ErrForbidden    = Forbidden("FORBIDDEN", "Apenas secretárias ou administradores podem gerenciar consultas")
	ErrInvalidID    = Validation("INVALID_ID", "ID inválido")
)

// Record store failures.
var (
	ErrUserNotFound              = MissingReference("USER_NOT_FOUND", "Usuário informado não existe")
	ErrUserWrongRole             = Validation("USER_WRONG_ROLE", "O usuário informado não possui o perfil exigido")
	ErrDuplicateCRM              = Conflict("DUPLICATE_CRM", "Já existe um médico cadastrado com esse CRM")
	ErrDuplicateCPF              = Conflict("DUPLICATE_CPF", "Já existe um paciente cadastrado com esse CPF")
	ErrDuplicateSecretaryForUser = Conflict("DUPLICATE_SECRETARY_FOR_USER", "Este usuário já está vinculado a uma secretária")
	ErrPatientNotFound           = NotFound("PATIENT_NOT_FOUND", "Paciente não encontrado")
	ErrDoctorNotFound            = NotFound("DOCTOR_NOT_FOUND", "Médico não encontrado")
	ErrSecretaryNotFound         = NotFound("SECRETARY_NOT_FOUND", "Secretária não encontrada")
	ErrProfileNotFound           = NotFound("PROFILE_NOT_FOUND", "Usuário não encontrado")
)

// Scheduler failures.
var (
	ErrAppointmentNotFound = NotFound("APPOINTMENT_NOT_FOUND", "Consulta não encontrada")
	ErrAppointmentConflict = Conflict("APPOINTMENT_CONFLICT", "Já existe uma consulta agendada para esse médico neste horário")
	ErrAlreadyCancelled    = Conflict("APPOINTMENT_ALREADY_CANCELLED", "A consulta já está cancelada")
	ErrAlreadyCompleted    = Conflict("APPOINTMENT_ALREADY_COMPLETED", "Não é possível cancelar uma consulta já realizada")
)

// Referenced entities missing while booking an appointment. They answer 400
// where the primary NotFound variants answer 404.
var (
	ErrReferencedPatientNotFound   = MissingReference("PATIENT_NOT_FOUND", "Paciente não encontrado")
	ErrReferencedDoctorNotFound    = MissingReference("DOCTOR_NOT_FOUND", "Médico não encontrado")
	ErrReferencedSecretaryNotFound = MissingReference("SECRETARY_NOT_FOUND", "Secretária não encontrada")
)
