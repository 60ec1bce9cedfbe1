package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"anon-board/internal/board"
	"anon-board/internal/notify"
)

const timeLayout = "Monday, 02 January 2006 15:04"

var (
	successStyle = color.New(color.FgGreen, color.OpBold)
	errorStyle   = color.New(color.FgRed, color.OpBold)
	mutedStyle   = color.New(color.FgGray)
)

// CleanText prepara texto no confiable para la terminal: saltos y tabs pasan a
// espacios y el resto de los caracteres de control (incluido ESC) se descartan.
func CleanText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(' ')
		case unicode.IsControl(r), isBidiControl(r), r == unicode.ReplacementChar:
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// isBidiControl detecta los marcadores de direccion que permiten reordenar
// visualmente el texto que se muestra.
func isBidiControl(r rune) bool {
	return (r >= 0x202A && r <= 0x202E) || (r >= 0x2066 && r <= 0x2069) || r == 0x200E || r == 0x200F
}

// FormatTime muestra el createdAt en hora local, o "Just now" si no vino.
func FormatTime(ts board.Timestamp, loc *time.Location) string {
	if !ts.Valid() {
		return "Just now"
	}
	if loc == nil {
		loc = time.Local
	}
	return ts.Instant(time.Now()).In(loc).Format(timeLayout)
}

// RenderPage dibuja la pagina derivada como tabla, mas la barra de navegacion.
func RenderPage(w io.Writer, view board.View, state board.State) {
	if view.TotalItems == 0 {
		if len(state.Messages) == 0 {
			fmt.Fprintln(w, "No messages yet. Be the first to share!")
		} else {
			fmt.Fprintf(w, "No messages match %q.\n", CleanText(state.Query))
		}
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Message", "Posted"})
	table.SetAutoWrapText(true)
	table.SetColWidth(60)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	offset := (view.Page - 1) * board.PageSize
	for i, msg := range view.Items {
		table.Append([]string{
			strconv.Itoa(offset + i + 1),
			CleanText(msg.Text),
			FormatTime(msg.CreatedAt, nil),
		})
	}
	table.Render()

	fmt.Fprintln(w, mutedStyle.Sprintf("Page %d of %d · %d messages · sort: %s", view.Page, view.TotalPages, view.TotalItems, state.Sort))
	fmt.Fprintln(w, navHint(view))
}

func navHint(view board.View) string {
	prev, next := "[p] prev", "[n] next"
	if !view.HasPrev {
		prev = mutedStyle.Sprint("(prev)")
	}
	if !view.HasNext {
		next = mutedStyle.Sprint("(next)")
	}
	return prev + "  " + next
}

// RenderBanners dibuja los avisos activos.
func RenderBanners(w io.Writer, banners []notify.Banner) {
	for _, b := range banners {
		fmt.Fprintln(w, bannerLine(b))
	}
}

func bannerLine(b notify.Banner) string {
	text := CleanText(b.Text)
	if b.Kind == notify.KindError {
		return errorStyle.Sprint("✖ " + text)
	}
	return successStyle.Sprint("✔ " + text)
}
