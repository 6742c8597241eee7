package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunMatchmaking roda até o contexto ser cancelado. A cada tick tenta
// formar uma partida com a sala de espera cheia.
func (a *App) RunMatchmaking(ctx context.Context) {
	a.logger.Info().Dur("interval", a.interval).Msg("matchmaking started")
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info().Msg("matchmaking stopped")
			return
		case <-ticker.C:
			a.tick(ctx)
		}
	}
}

// tick é um ciclo do matchmaking. Falhas são registradas e o loop segue.
func (a *App) tick(ctx context.Context) (g *Game, created bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().Str("panic", fmt.Sprint(r)).Msg("matchmaking tick failed")
			g, created = nil, false
		}
	}()

	if n := a.games.evict(); n > 0 {
		a.logger.Debug().Int("evicted", n).Msg("finished games evicted")
	}

	pair, ok, err := a.room.DrawPairIfFull()
	if err != nil {
		a.logger.Error().Err(err).Msg("draw pair")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	if pair[0].ConnectionID() == pair[1].ConnectionID() {
		// Os dois lados precisam de conexões distintas para a prontidão de cada um.
		a.logger.Error().Strs("players", nicknames(pair)).Str("connectionId", pair[0].ConnectionID()).Msg("pair shares a connection, game refused")
		for _, p := range pair {
			p.ResetAfterGame()
		}
		return nil, false
	}

	g = newGame(uuid.NewString(), pair, a.deps)
	a.games.add(g)
	a.logger.Info().Str("sessionId", g.ID).Strs("players", nicknames(pair)).Msg("game created")
	g.Start(ctx)
	return g, true
}
