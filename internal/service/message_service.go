package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anon-board/internal/domain"
	"anon-board/internal/metrics"
	"anon-board/internal/repository"
)

// MessageService expone la creacion y el listado de mensajes sobre el store.
type MessageService struct {
	repo repository.MessageRepository
}

var (
	ErrMessageServiceNotConfigured = errors.New("message service not configured")
	ErrStore                       = errors.New("message store failure")
)

func NewMessageService(repo repository.MessageRepository) *MessageService {
	return &MessageService{repo: repo}
}

// Create valida el texto y lo inserta una sola vez; nunca reintenta.
func (s *MessageService) Create(ctx context.Context, text, ip string) (domain.Message, error) {
	if s == nil || s.repo == nil {
		return domain.Message{}, ErrMessageServiceNotConfigured
	}

	trimmed, err := domain.ValidateMessage(text)
	if err != nil {
		metrics.MessagesRejected.WithLabelValues(rejectionReason(err)).Inc()
		return domain.Message{}, err
	}

	msg, err := s.repo.Create(ctx, trimmed, strings.TrimSpace(ip))
	if err != nil {
		metrics.StoreErrors.WithLabelValues("create").Inc()
		return domain.Message{}, fmt.Errorf("%w: create: %v", ErrStore, err)
	}
	metrics.MessagesCreated.Inc()
	return msg, nil
}

// List devuelve los mensajes mas recientes, del mas nuevo al mas viejo.
func (s *MessageService) List(ctx context.Context) ([]domain.Message, error) {
	if s == nil || s.repo == nil {
		return nil, ErrMessageServiceNotConfigured
	}

	messages, err := s.repo.ListRecent(ctx, domain.ListLimit)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		return nil, fmt.Errorf("%w: list: %v", ErrStore, err)
	}
	if messages == nil {
		return []domain.Message{}, nil
	}
	if len(messages) > domain.ListLimit {
		messages = messages[:domain.ListLimit]
	}
	return messages, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		return "empty"
	case errors.Is(err, domain.ErrTooLong):
		return "too_long"
	default:
		return "not_text"
	}
}
