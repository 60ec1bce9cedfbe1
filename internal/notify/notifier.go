package notify

import (
	"sync"
	"time"
)

// DefaultDelay es el tiempo que un aviso permanece visible.
const DefaultDelay = 3 * time.Second

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Banner es un aviso efimero.
type Banner struct {
	ID      int
	Text    string
	Kind    Kind
	ShownAt time.Time
}

// Sink dibuja y retira avisos. Las llamadas pueden llegar desde los timers.
type Sink interface {
	Show(b Banner)
	Dismiss(b Banner)
}

// Notifier muestra avisos que se retiran solos tras un delay fijo, sin
// intervencion del usuario. Varios avisos pueden estar activos a la vez.
type Notifier struct {
	sink  Sink
	delay time.Duration

	mu     sync.Mutex
	nextID int
	active map[int]Banner
	timers map[int]*time.Timer
	closed bool
}

func NewNotifier(sink Sink, delay time.Duration) *Notifier {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Notifier{
		sink:   sink,
		delay:  delay,
		active: make(map[int]Banner),
		timers: make(map[int]*time.Timer),
	}
}

func (n *Notifier) Notify(text string, kind Kind) Banner {
	n.mu.Lock()
	n.nextID++
	b := Banner{ID: n.nextID, Text: text, Kind: kind, ShownAt: time.Now()}
	if n.closed {
		n.mu.Unlock()
		return b
	}
	n.active[b.ID] = b
	n.timers[b.ID] = time.AfterFunc(n.delay, func() { n.dismiss(b.ID) })
	n.mu.Unlock()

	if n.sink != nil {
		n.sink.Show(b)
	}
	return b
}

// Active lista los avisos visibles, del mas viejo al mas nuevo.
func (n *Notifier) Active() []Banner {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Banner, 0, len(n.active))
	for id := 1; id <= n.nextID; id++ {
		if b, ok := n.active[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Close cancela los timers pendientes; los avisos posteriores se ignoran.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	for id, t := range n.timers {
		t.Stop()
		delete(n.timers, id)
	}
	n.active = make(map[int]Banner)
}

func (n *Notifier) dismiss(id int) {
	n.mu.Lock()
	b, ok := n.active[id]
	delete(n.active, id)
	delete(n.timers, id)
	n.mu.Unlock()

	if ok && n.sink != nil {
		n.sink.Dismiss(b)
	}
}
