package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"anon-board/internal/domain"
)

const badgerMessagePrefix = "msg:"

// BadgerMessageRepository guarda mensajes en una base Badger embebida.
// La clave "msg:{unix_nano con 19 digitos}:{uuid}" mantiene el orden cronologico
// lexicografico; el uuid desempata escrituras en el mismo nanosegundo.
type BadgerMessageRepository struct {
	db  *badger.DB
	now func() time.Time

	mu   sync.Mutex
	last int64
}

type badgerMessage struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	IP        string `json:"ip,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

func NewBadgerMessageRepository(db *badger.DB) *BadgerMessageRepository {
	return &BadgerMessageRepository{db: db, now: time.Now}
}

func (r *BadgerMessageRepository) Create(ctx context.Context, text, ip string) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}

	record := badgerMessage{
		ID:        uuid.NewString(),
		Message:   text,
		IP:        ip,
		CreatedAt: r.nextTimestamp(),
	}
	value, err := json.Marshal(record)
	if err != nil {
		return domain.Message{}, fmt.Errorf("encode message: %w", err)
	}

	key := fmt.Sprintf("%s%019d:%s", badgerMessagePrefix, record.CreatedAt, record.ID)
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return record.toDomain(true), nil
}

func (r *BadgerMessageRepository) ListRecent(ctx context.Context, limit int) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []badgerMessage
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(badgerMessagePrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		// En modo reverso hay que posicionarse despues de la ultima clave posible.
		seekKey := append([]byte(badgerMessagePrefix), []byte("9999999999999999999;")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(records) == limit {
				break
			}
			var record badgerMessage
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &record)
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := lo.Map(records, func(record badgerMessage, _ int) domain.Message {
		return record.toDomain(false)
	})
	return messages, nil
}

// nextTimestamp garantiza marcas de tiempo estrictamente crecientes dentro del proceso.
func (r *BadgerMessageRepository) nextTimestamp() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts := r.now().UTC().UnixNano()
	if ts <= r.last {
		ts = r.last + 1
	}
	r.last = ts
	return ts
}

func (m badgerMessage) toDomain(withIP bool) domain.Message {
	msg := domain.Message{
		ID:        m.ID,
		Message:   m.Message,
		CreatedAt: time.Unix(0, m.CreatedAt).UTC(),
	}
	if withIP {
		msg.IP = m.IP
	}
	return msg
}
