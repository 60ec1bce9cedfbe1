package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"anon-board/internal/domain"
)

// MessageRepository es el store de mensajes: solo insercion y listado de los mas recientes.
// El store asigna ID y CreatedAt; las implementaciones nunca modifican ni borran mensajes.
type MessageRepository interface {
	Create(ctx context.Context, text, ip string) (domain.Message, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Message, error)
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, text, ip string) (domain.Message, error) {
	const query = `
		INSERT INTO messages (message, ip)
		VALUES ($1, $2)
		RETURNING id::text, created_at
	`

	var ipValue interface{}
	if ip != "" {
		ipValue = ip
	}

	msg := domain.Message{Message: text, IP: ip}
	if err := r.pool.QueryRow(ctx, query, text, ipValue).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return domain.Message{}, err
	}
	msg.CreatedAt = msg.CreatedAt.UTC()
	return msg, nil
}

func (r *PgMessageRepository) ListRecent(ctx context.Context, limit int) ([]domain.Message, error) {
	const query = `
		SELECT id::text, message, created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]domain.Message, 0, limit)
	for rows.Next() {
		var msg domain.Message
		if err = rows.Scan(&msg.ID, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.CreatedAt = msg.CreatedAt.UTC()
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
