package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do Stockify.
// Ela permite que a camada de apresentação (telas, console) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION", "NOT_FOUND", "TRANSPORT")
	HTTPStatus() int  // Código HTTP associado (recebido do backend ou equivalente)
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Erros locais (nunca chegam à rede) ---

// ValidationError representa falhas de validação de dados de entrada.
// Fields mapeia o nome do campo (nome JSON) para a mensagem exibida ao lado dele.
type ValidationError struct {
	Msg    string
	Fields map[string]string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NewFieldValidationError cria um erro de validação com mensagens por campo.
func NewFieldValidationError(msg string, fields map[string]string) AppError {
	return &ValidationError{Msg: msg, Fields: fields}
}

// --- Erros vindos do backend ---

// NotFoundError representa a ausência de um recurso (404).
// Em listagens filtradas ele é tratado como página vazia, não como falha.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa um conflito reportado pelo backend (e.g., recurso duplicado).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito.
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// UnauthorizedError representa falha de autenticação/autorização (401/403).
type UnauthorizedError struct {
	Msg    string
	Status int
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("Não autorizado: %s", e.Msg) }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusUnauthorized
	}
	return e.Status
}
func (e *UnauthorizedError) Unwrap() error { return nil }

// NewUnauthorizedError cria um erro 401.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg, Status: http.StatusUnauthorized}
}

// NewForbiddenError cria um erro 403.
func NewForbiddenError(msg string) AppError {
	return &UnauthorizedError{Msg: msg, Status: http.StatusForbidden}
}

// --- Erros de Infraestrutura (Encapsulamento) ---

// TransportError representa falha de rede ou resposta inesperada do servidor (5xx, 4xx não mapeados).
// É sempre "retentável" do ponto de vista do usuário.
type TransportError struct {
	Msg    string
	Status int   // 0 quando a requisição nem chegou ao servidor
	Err    error // Erro original subjacente (e.g., erro de rede)
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Falha de comunicação: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("Falha de comunicação: %s", e.Msg)
}
func (e *TransportError) Category() string { return "TRANSPORT_ERROR" }
func (e *TransportError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusBadGateway
	}
	return e.Status
}
func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError cria um erro de transporte.
func NewTransportError(msg string, status int, err error) AppError {
	return &TransportError{Msg: msg, Status: status, Err: err}
}

// InternalError representa falhas inesperadas dentro do próprio cliente (decodificação, estado).
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro interno.
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDecodeError é um atalho para falhas ao interpretar o corpo de uma resposta.
func NewDecodeError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (decode): %s", msg, err.Error()), err)
}

// --- Helpers ---

// FromStatus traduz um status HTTP do backend para o erro tipado correspondente.
// msg é a mensagem enviada pelo backend (pode ser vazia).
func FromStatus(status int, msg string) AppError {
	switch {
	case status == http.StatusBadRequest:
		if msg == "" {
			msg = "Requisição inválida."
		}
		return NewValidationError(msg)
	case status == http.StatusUnauthorized:
		return NewUnauthorizedError(msg)
	case status == http.StatusForbidden:
		return NewForbiddenError(msg)
	case status == http.StatusNotFound:
		return NewNotFoundError(msg)
	case status == http.StatusConflict:
		return NewConflictError(msg)
	default:
		if msg == "" {
			msg = fmt.Sprintf("status %d inesperado", status)
		}
		return NewTransportError(msg, status, nil)
	}
}

// IsNotFound indica se algum erro da cadeia é um NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsUnauthorized indica se algum erro da cadeia é um UnauthorizedError.
func IsUnauthorized(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue)
}

// IsValidation indica se algum erro da cadeia é um ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// FieldErrors devolve os erros por campo de um ValidationError (nil caso contrário).
func FieldErrors(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

// UserMessage devolve a mensagem a ser exibida ao usuário.
// Erros vindos do backend com mensagem própria a mantêm; o resto usa o fallback genérico.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var (
		ve *ValidationError
		cf *ConflictError
		nf *NotFoundError
		ue *UnauthorizedError
	)
	switch {
	case errors.As(err, &ve) && ve.Msg != "":
		return ve.Msg
	case errors.As(err, &cf) && cf.Msg != "":
		return cf.Msg
	case errors.As(err, &nf) && nf.Msg != "":
		return nf.Msg
	case errors.As(err, &ue):
		return "Sessão expirada. Faça login novamente."
	}
	return fallback
}
