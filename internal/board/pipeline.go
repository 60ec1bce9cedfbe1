// Package board contiene el lado cliente del tablero: el cache de mensajes, la
// derivacion filtro -> orden -> paginado y el controlador de sesion.
package board

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// PageSize es la cantidad fija de mensajes por pagina.
const PageSize = 10

// SortOrder define el orden por createdAt.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// ParseSortOrder acepta "newest" u "oldest"; cualquier otro valor es newest.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortOldest)) {
		return SortOldest
	}
	return SortNewest
}

// Message es un mensaje tal como lo recibe el cliente.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"message"`
	CreatedAt Timestamp `json:"createdAt"`
}

// State es el estado explicito de la vista: el cache completo mas los controles.
// Los metodos With* devuelven una copia; el cache nunca se muta en el lugar.
type State struct {
	Messages []Message
	Query    string
	Sort     SortOrder
	Page     int
}

// NewState devuelve un estado vacio en la primera pagina, ordenado por newest.
func NewState() State {
	return State{Sort: SortNewest, Page: 1}
}

// WithMessages reemplaza el cache completo. No hay merge incremental.
func (s State) WithMessages(messages []Message) State {
	s.Messages = append([]Message(nil), messages...)
	return s
}

// WithQuery cambia la busqueda y vuelve a la pagina 1.
func (s State) WithQuery(query string) State {
	s.Query = query
	s.Page = 1
	return s
}

// WithSort cambia el orden y vuelve a la pagina 1.
func (s State) WithSort(order SortOrder) State {
	s.Sort = order
	s.Page = 1
	return s
}

// WithPage cambia solo la pagina; filtro y orden se conservan.
func (s State) WithPage(page int) State {
	s.Page = clampPage(page, s.totalPages())
	return s
}

func (s State) NextPage() State { return s.WithPage(s.currentPage() + 1) }

func (s State) PrevPage() State { return s.WithPage(s.currentPage() - 1) }

func (s State) currentPage() int { return clampPage(s.Page, s.totalPages()) }

func (s State) totalPages() int { return pageCount(len(Filter(s.Messages, s.Query))) }

// View es la pagina derivada mas los metadatos de navegacion.
type View struct {
	Items      []Message
	Page       int
	TotalPages int
	TotalItems int
	HasPrev    bool
	HasNext    bool
}

// Derive aplica filtro, orden y paginado. Es pura: now solo se usa para
// normalizar timestamps ausentes.
func Derive(s State, now time.Time) View {
	filtered := Filter(s.Messages, s.Query)
	sorted := SortMessages(filtered, s.Sort, now)
	total := pageCount(len(sorted))
	page := clampPage(s.Page, total)

	items := []Message{}
	if pages := lo.Chunk(sorted, PageSize); len(pages) >= page {
		items = pages[page-1]
	}

	return View{
		Items:      items,
		Page:       page,
		TotalPages: total,
		TotalItems: len(sorted),
		HasPrev:    page > 1,
		HasNext:    page < total,
	}
}

// Filter conserva los mensajes cuyo texto contiene query, sin distinguir mayusculas.
func Filter(messages []Message, query string) []Message {
	if query == "" {
		return append([]Message(nil), messages...)
	}
	needle := strings.ToLower(query)
	return lo.Filter(messages, func(m Message, _ int) bool {
		return strings.Contains(strings.ToLower(m.Text), needle)
	})
}

// SortMessages ordena por createdAt normalizado. Es estable: los empates
// conservan el orden en que llegaron.
func SortMessages(messages []Message, order SortOrder, now time.Time) []Message {
	type keyed struct {
		msg Message
		at  time.Time
	}
	items := lo.Map(messages, func(m Message, _ int) keyed {
		return keyed{msg: m, at: m.CreatedAt.Instant(now)}
	})
	sort.SliceStable(items, func(i, j int) bool {
		if order == SortOldest {
			return items[i].at.Before(items[j].at)
		}
		return items[i].at.After(items[j].at)
	})
	return lo.Map(items, func(k keyed, _ int) Message { return k.msg })
}

func pageCount(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

func clampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}
