//START OF FILE quizduel/internal/session/game_funcs.go
package session

import (
	"time"

	"quizduel/internal/events"
	"quizduel/internal/game/battle"
	"quizduel/internal/game/player"
	"quizduel/internal/network"
	"quizduel/internal/session/message"
)

// GameView é o retrato de uma partida exposto pela API.
type GameView struct {
	ID        string               `json:"id"`
	State     State                `json:"state"`
	CreatedAt time.Time            `json:"createdAt"`
	Players   [2]player.View       `json:"players"`
	Readiness map[string]Readiness `json:"readiness"`
	Result    *battle.Outcome      `json:"result,omitempty"`
}

func (g *Game) View() GameView {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v := GameView{
		ID:        g.ID,
		State:     g.state,
		CreatedAt: g.CreatedAt,
		Players:   [2]player.View{g.players[0].View(), g.players[1].View()},
		Readiness: make(map[string]Readiness, len(g.readiness)),
	}
	for connID, r := range g.readiness {
		v.Readiness[connID] = *r
	}
	if g.result != nil {
		res := *g.result
		v.Result = &res
	}
	return v
}

// isConnected exige a flag do jogador e uma conexão viva no transporte.
func (g *Game) isConnected(p *player.Player) bool {
	return p.Connected() && g.deps.delivery.IsConnected(p.ConnectionID())
}

func (g *Game) allConnected() bool {
	return g.isConnected(g.players[0]) && g.isConnected(g.players[1])
}

func (g *Game) sendTo(p *player.Player, msg network.Message) {
	connID := p.ConnectionID()
	if err := g.deps.delivery.Send(connID, msg); err != nil {
		g.logger.Warn().Err(err).Str("nickname", p.Nickname()).Str("connectionId", connID).Str("type", msg.Type).Msg("delivery failed")
	}
}

// sendResults envia GAME_RESULT apenas para quem ainda está conectado.
func (g *Game) sendResults(text, logs string) {
	msg := message.CreateGameResult(text, logs)
	for _, p := range g.players {
		if !g.isConnected(p) {
			g.logger.Debug().Str("nickname", p.Nickname()).Msg("player offline, result not delivered")
			continue
		}
		g.sendTo(p, msg)
	}
}

// finish libera os jogadores e só então grava o estado terminal.
func (g *Game) finish(state State, outcome *battle.Outcome) {
	for _, p := range g.players {
		p.ResetAfterGame()
	}

	g.mu.Lock()
	g.state = state
	g.result = outcome
	g.mu.Unlock()

	g.logger.Info().Str("state", string(state)).Msg("game closed")
}

func (g *Game) publish(t events.Type, text string, code *int) {
	if g.deps.events == nil {
		return
	}
	g.deps.events.Publish(events.Event{
		Type:       t,
		SessionID:  g.ID,
		Players:    nicknames(g.players),
		Message:    text,
		ResultCode: code,
	})
}

//END OF FILE quizduel/internal/session/game_funcs.go
