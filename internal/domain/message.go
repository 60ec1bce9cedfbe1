package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxMessageLength es el largo maximo (en caracteres) de un mensaje ya recortado.
	MaxMessageLength = 500
	// ListLimit es la cantidad de mensajes recientes que devuelve un listado.
	ListLimit = 100
)

// Message es la unica entidad del tablero. ID y CreatedAt los asigna el store.
type Message struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	IP        string    `json:"-"`
}

var (
	ErrValidation     = errors.New("invalid message")
	ErrEmptyMessage   = validationError("message is empty")
	ErrTooLong        = validationError("message exceeds 500 characters")
	ErrMessageNotText = validationError("message must be text")
)

type invalidMessage struct {
	reason string
}

func validationError(reason string) error {
	return &invalidMessage{reason: reason}
}

func (e *invalidMessage) Error() string { return e.reason }

func (e *invalidMessage) Unwrap() error { return ErrValidation }

// ValidateMessage recorta el texto y aplica las reglas de forma y largo.
func ValidateMessage(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLength {
		return "", ErrTooLong
	}
	return trimmed, nil
}
