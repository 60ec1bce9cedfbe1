package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"anon-board/internal/board"
	"anon-board/internal/client"
	"anon-board/internal/config"
	"anon-board/internal/notify"
	"anon-board/internal/ui"
)

const help = `Comandos:
  s <texto>          enviar un mensaje
  / <texto>          buscar (vacio limpia la busqueda)
  o newest|oldest    cambiar el orden
  n, p               pagina siguiente / anterior
  g <n>              ir a la pagina n
  r                  recargar
  h                  ayuda
  q                  salir`

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadClientConfig()
	if err != nil {
		log.Fatal(err)
	}

	// Los avisos se dibujan en cada redibujado mientras siguen activos.
	notifier := notify.NewNotifier(nil, cfg.NotifyDelay)
	defer notifier.Close()

	session := board.NewSession(client.NewHTTPClient(cfg.APIURL), notifier)
	run(context.Background(), os.Stdin, os.Stdout, session, notifier)
}

// run procesa comandos hasta "q" o fin de entrada. Toda accion que pueda generar
// un aviso termina en un redibujado, asi los errores siempre llegan a la pantalla.
func run(ctx context.Context, in io.Reader, out io.Writer, session *board.Session, notifier *notify.Notifier) {
	reader := bufio.NewReader(in)

	_ = session.Refresh(ctx)
	draw(out, session, notifier, session.View())
	fmt.Fprintln(out, help)

	for {
		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		cmd, arg, _ := strings.Cut(line, " ")

		var view board.View
		switch strings.ToLower(strings.TrimSpace(cmd)) {
		case "":
			if err != nil {
				return
			}
			continue
		case "q", "quit", "exit":
			return
		case "h", "help":
			fmt.Fprintln(out, help)
			continue
		case "s", "send":
			// Un envio fallido tambien redibuja: el aviso de error es la unica senal.
			_ = send(ctx, out, session, arg)
			view = session.View()
		case "/":
			view = session.Search(arg)
		case "o", "sort":
			view = session.SortBy(board.ParseSortOrder(arg))
		case "n", "next":
			view = session.Next()
		case "p", "prev":
			view = session.Prev()
		case "g", "page":
			page, convErr := strconv.Atoi(strings.TrimSpace(arg))
			if convErr != nil {
				fmt.Fprintln(out, "Pagina invalida.")
				continue
			}
			view = session.GoToPage(page)
		case "r", "reload":
			_ = session.Refresh(ctx)
			view = session.View()
		default:
			fmt.Fprintln(out, "Comando desconocido. Escribi h para ver la ayuda.")
			continue
		}
		draw(out, session, notifier, view)
	}
}

func send(ctx context.Context, out io.Writer, session *board.Session, text string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fmt.Fprintln(out, "Sending...")
	return session.Submit(ctx, text)
}

func draw(out io.Writer, session *board.Session, notifier *notify.Notifier, view board.View) {
	fmt.Fprintln(out)
	ui.RenderPage(out, view, session.State())
	ui.RenderBanners(out, notifier.Active())
}
