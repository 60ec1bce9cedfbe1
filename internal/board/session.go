package board

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"anon-board/internal/domain"
	"anon-board/internal/notify"
)

// API es lo que la sesion necesita del servicio de mensajes.
type API interface {
	List(ctx context.Context) ([]Message, error)
	Create(ctx context.Context, text string) (string, error)
}

// Notifier muestra un aviso efimero al usuario.
type Notifier interface {
	Notify(text string, kind notify.Kind) notify.Banner
}

var ErrSubmitInFlight = errors.New("a message is already being sent")

const (
	msgEnterMessage = "Please enter a message"
	msgTooLong      = "Message must be at most 500 characters"
	msgSent         = "Message sent successfully!"
)

// Session coordina las acciones del usuario sobre un State. Un fallo al listar
// nunca borra el cache: la vista anterior sigue visible.
type Session struct {
	api      API
	notifier Notifier
	now      func() time.Time

	mu      sync.Mutex
	state   State
	sending atomic.Bool
}

func NewSession(api API, notifier Notifier) *Session {
	return &Session{
		api:      api,
		notifier: notifier,
		now:      time.Now,
		state:    NewState(),
	}
}

// Refresh vuelve a pedir la lista completa y reemplaza el cache.
func (s *Session) Refresh(ctx context.Context) error {
	messages, err := s.api.List(ctx)
	if err != nil {
		s.notifier.Notify(err.Error(), notify.KindError)
		return err
	}

	s.mu.Lock()
	s.state = s.state.WithMessages(messages)
	s.mu.Unlock()
	return nil
}

// Submit valida localmente, envia y refresca. Solo admite un envio a la vez.
func (s *Session) Submit(ctx context.Context, text string) error {
	trimmed, err := domain.ValidateMessage(text)
	if err != nil {
		if errors.Is(err, domain.ErrTooLong) {
			s.notifier.Notify(msgTooLong, notify.KindError)
		} else {
			s.notifier.Notify(msgEnterMessage, notify.KindError)
		}
		return err
	}

	if !s.sending.CompareAndSwap(false, true) {
		return ErrSubmitInFlight
	}
	defer s.sending.Store(false)

	if _, err := s.api.Create(ctx, trimmed); err != nil {
		s.notifier.Notify(err.Error(), notify.KindError)
		return err
	}

	// Un fallo al refrescar ya se notifica dentro de Refresh; el envio fue exitoso igual.
	_ = s.Refresh(ctx)
	s.notifier.Notify(msgSent, notify.KindSuccess)
	return nil
}

// Sending indica si hay un envio en curso (el boton de enviar esta deshabilitado).
func (s *Session) Sending() bool { return s.sending.Load() }

func (s *Session) Search(query string) View {
	return s.update(func(st State) State { return st.WithQuery(query) })
}

func (s *Session) SortBy(order SortOrder) View {
	return s.update(func(st State) State { return st.WithSort(order) })
}

func (s *Session) GoToPage(page int) View {
	return s.update(func(st State) State { return st.WithPage(page) })
}

func (s *Session) Next() View { return s.update(State.NextPage) }

func (s *Session) Prev() View { return s.update(State.PrevPage) }

// View deriva la pagina actual sin modificar el estado.
func (s *Session) View() View {
	return s.update(func(st State) State { return st })
}

// State devuelve una copia del estado actual.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) update(fn func(State) State) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return Derive(s.state, s.now())
}
