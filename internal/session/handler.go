package session

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"quizduel/internal/network"
	"quizduel/internal/session/message"
)

// GameHandler liga os eventos do Hub ao App. Implementa network.EventHandler.
type GameHandler struct {
	app    *App
	logger zerolog.Logger
}

func NewGameHandler(app *App) *GameHandler {
	return &GameHandler{
		app:    app,
		logger: log.With().Str("component", "handler").Logger(),
	}
}

func (h *GameHandler) OnConnect(c *network.Client) {
	h.logger.Info().Str("connectionId", c.ID()).Str("remote", c.RemoteAddr()).Msg("client connected")
	h.connected(c.ID())
}

func (h *GameHandler) OnDisconnect(c *network.Client) {
	h.logger.Info().Str("connectionId", c.ID()).Msg("client disconnected")
	h.app.DisconnectConnection(c.ID())
}

func (h *GameHandler) OnMessage(c *network.Client, msg network.Message) {
	h.dispatch(c.ID(), msg)
}

func (h *GameHandler) connected(connectionID string) {
	if err := h.app.delivery.Send(connectionID, message.CreateConnected(connectionID)); err != nil {
		h.logger.Warn().Err(err).Str("connectionId", connectionID).Msg("send connected")
	}
}

// dispatch decodifica a mensagem e a encaminha conforme o tipo do comando.
func (h *GameHandler) dispatch(connectionID string, msg network.Message) {
	cmd, err := decodeCommand(msg)
	if err != nil {
		h.logger.Debug().Err(err).Str("connectionId", connectionID).Msg("invalid client message")
		h.replyError(connectionID, err)
		return
	}

	switch c := cmd.(type) {
	case registerCommand:
		p, err := h.app.RegisterOrReconnect(c.Nickname, connectionID)
		if err != nil {
			h.replyError(connectionID, err)
			return
		}
		if err := h.app.delivery.Send(connectionID, message.CreateRegistered(p.View())); err != nil {
			h.logger.Warn().Err(err).Str("connectionId", connectionID).Msg("send registered")
		}
	case unitsReadyCommand:
		h.app.HandleReadiness(connectionID, SetupComplete, 0)
	case scoreCommand:
		h.app.HandleReadiness(connectionID, ScoreSubmitted, c.Score)
	}
}

func (h *GameHandler) replyError(connectionID string, err error) {
	if sendErr := message.SendError(h.app.delivery, connectionID, "%s", err.Error()); sendErr != nil {
		h.logger.Warn().Err(sendErr).Str("connectionId", connectionID).Msg("send error reply")
	}
}
