package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"quizduel/internal/game/player"
	"quizduel/internal/quiz"
	"quizduel/internal/session"
)

type addPlayerReq struct {
	Nickname     string `json:"nickname"`
	ConnectionID string `json:"connectionId"`
}

type enqueueReq struct {
	Nickname string `json:"nickname"`
}

type enqueueRes struct {
	Nickname string `json:"nickname"`
	Waiting  bool   `json:"waiting"`
}

// handleAddPlayer registra um nickname novo ou reconecta um existente.
func (s *Server) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	var req addPlayerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.ConnectionID) == "" {
		writeError(w, http.StatusBadRequest, "connectionId is required")
		return
	}

	p, err := s.app.RegisterOrReconnect(req.Nickname, req.ConnectionID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	log.Info().Str("component", "api").Str("nickname", p.Nickname()).Msg("player added")
	writeJSON(w, http.StatusOK, p.View())
}

func (s *Server) handleAddToWaitingRoom(w http.ResponseWriter, r *http.Request) {
	var req enqueueReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	joined, err := s.app.EnqueuePlayer(req.Nickname)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if !joined {
		p, _ := s.app.FindPlayerByNickname(req.Nickname)
		if !s.app.WaitingRoom().Contains(p) {
			writeError(w, http.StatusConflict, "waiting room is full")
			return
		}
	}
	writeJSON(w, http.StatusOK, enqueueRes{Nickname: req.Nickname, Waiting: true})
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, views(s.app.Players()))
}

func (s *Server) handleWaitingPlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, views(s.app.WaitingPlayers()))
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := quiz.Questions()
	if err != nil {
		log.Error().Err(err).Str("component", "api").Msg("load questions")
		writeError(w, http.StatusInternalServerError, "questions unavailable")
		return
	}
	writeJSON(w, http.StatusOK, qs)
}

// handleSession devolve a partida mais recente do jogador.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	nickname := chi.URLParam(r, "nickname")
	g, ok := s.app.FindSessionForNickname(nickname)
	if !ok {
		writeError(w, http.StatusNotFound, "no session for "+nickname)
		return
	}
	writeJSON(w, http.StatusOK, g.View())
}

func views(players []*player.Player) []player.View {
	out := make([]player.View, 0, len(players))
	for _, p := range players {
		out = append(out, p.View())
	}
	return out
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidNickname):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrPlayerInGame), errors.Is(err, session.ErrConnectionInUse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
