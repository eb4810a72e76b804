package service

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a failure the caller can act on. Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var serr *Error
	if errors.As(err, &serr) {
		return serr, true
	}
	return nil, false
}

// IsKind reports whether err carries a *Error of kind k.
func IsKind(err error, k Kind) bool {
	serr, ok := AsError(err)
	return ok && serr.Kind == k
}

func validationError(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func notFoundError(message string, err error) error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

const (
	MsgUserNotFound        = "Usuário não encontrado"
	MsgAccountNotFound     = "Conta não encontrada"
	MsgCategoryNotFound    = "Categoria não encontrada"
	MsgTransactionNotFound = "Transação não encontrada"
	MsgBudgetNotFound      = "Orçamento não encontrado"
	MsgGoalNotFound        = "Meta não encontrada"

	MsgEmailTaken         = "E-mail já cadastrado"
	MsgInvalidCredentials = "E-mail ou senha inválidos"
	MsgUnauthorized       = "Não autorizado: token JWT ausente ou inválido."

	MsgTypeMismatch           = "Tipo da transação deve ser igual ao tipo da categoria"
	MsgCategoryTypeLocked     = "Não é possível alterar o tipo de uma categoria com transações"
	MsgInvalidCategoryType    = "Tipo de categoria inválido. Use 'income' ou 'expense'."
	MsgInvalidTransactionType = "Tipo de transação inválido. Use 'income' ou 'expense'."
	MsgAmountNotPositive      = "O valor deve ser maior que zero"
	MsgInvalidMonth           = "O mês deve estar entre 1 e 12"
	MsgInvalidYear            = "Ano inválido"
	MsgNameRequired           = "O nome é obrigatório"
	MsgTitleRequired          = "O título é obrigatório"

	MsgInternal = "Erro interno do servidor"
)
