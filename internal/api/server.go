// Package api expõe a superfície HTTP do servidor: cadastro de jogadores,
// listagens, perguntas do quiz, consulta de partidas, saúde e o upgrade para WebSocket.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"quizduel/internal/session"
)

const handlerTimeout = 10 * time.Second

// Options agrupa os handlers externos montados no roteador.
type Options struct {
	ClientOrigin string
	WebSocket    http.Handler
	Health       http.HandlerFunc
}

// Server junta o roteador e o App.
type Server struct {
	r   *chi.Mux
	app *session.App
}

// New monta o roteador com middlewares e rotas.
func New(app *session.App, opts Options) *Server {
	s := &Server{r: chi.NewRouter(), app: app}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(cors(opts.ClientOrigin))

	// O upgrade fica fora do timeout e do Content-Type JSON.
	if opts.WebSocket != nil {
		s.r.Method(http.MethodGet, "/ws", opts.WebSocket)
	}

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(handlerTimeout))
		r.Use(jsonContentType)

		r.Post("/add_player", s.handleAddPlayer)
		r.Post("/add_player_to_waiting_room", s.handleAddToWaitingRoom)
		r.Get("/players", s.handlePlayers)
		r.Get("/players_in_waiting_room", s.handleWaitingPlayers)
		r.Get("/questions", s.handleQuestions)
		r.Get("/sessions/{nickname}", s.handleSession)

		if opts.Health != nil {
			r.Get("/health", opts.Health)
		}
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found: "+r.URL.Path)
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// Router expõe o roteador (usado nos testes).
func (s *Server) Router() chi.Router { return s.r }
