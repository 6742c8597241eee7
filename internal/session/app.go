package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"quizduel/internal/events"
	"quizduel/internal/game/battle"
	"quizduel/internal/game/player"
	"quizduel/internal/session/message"
)

var (
	ErrInvalidNickname = errors.New("nickname must not be empty")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrPlayerInGame    = errors.New("player is already in a game")
	ErrInvalidCapacity = errors.New("waiting room capacity must be at least 2")
	ErrConnectionInUse = errors.New("connection already bound to another player")
)

// DefaultMatchmakingInterval é o período do loop de matchmaking.
const DefaultMatchmakingInterval = 5 * time.Second

// Options configura o App. Campos zerados assumem os padrões.
type Options struct {
	Capacity            int
	MatchmakingInterval time.Duration
	BattleSeed          int64
	SessionHistory      int
	ReadyTimeout        time.Duration

	Rand   *rand.Rand
	Engine battle.Engine
	Events events.Publisher
}

func DefaultOptions() Options {
	return Options{
		Capacity:            DefaultCapacity,
		MatchmakingInterval: DefaultMatchmakingInterval,
		BattleSeed:          DefaultBattleSeed,
		SessionHistory:      DefaultSessionHistory,
	}
}

// App é o orquestrador: registro de jogadores, sala de espera e partidas.
type App struct {
	mu           sync.RWMutex
	players      map[string]*player.Player
	byConnection map[string]*player.Player

	room     *WaitingRoom
	games    *gameStore
	delivery message.Sender
	deps     gameDeps
	interval time.Duration

	logger zerolog.Logger
}

// NewApp monta o orquestrador sobre o canal de entrega informado.
func NewApp(delivery message.Sender, opts Options) (*App, error) {
	if delivery == nil {
		return nil, errors.New("session: nil delivery")
	}
	if opts.Capacity == 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Capacity < 2 {
		return nil, fmt.Errorf("capacity %d: %w", opts.Capacity, ErrInvalidCapacity)
	}
	if opts.MatchmakingInterval <= 0 {
		opts.MatchmakingInterval = DefaultMatchmakingInterval
	}
	if opts.Engine == nil {
		opts.Engine = battle.NewSimulator()
	}
	if opts.Events == nil {
		opts.Events = events.Noop{}
	}

	return &App{
		players:      make(map[string]*player.Player),
		byConnection: make(map[string]*player.Player),
		room:         NewWaitingRoom(opts.Capacity, opts.Rand),
		games:        newGameStore(opts.SessionHistory),
		delivery:     delivery,
		deps: gameDeps{
			delivery:     delivery,
			engine:       opts.Engine,
			events:       opts.Events,
			seed:         opts.BattleSeed,
			readyTimeout: opts.ReadyTimeout,
		},
		interval: opts.MatchmakingInterval,
		logger:   log.With().Str("component", "app").Logger(),
	}, nil
}

func (a *App) WaitingRoom() *WaitingRoom { return a.room }

// RegisterOrReconnect associa o nickname à conexão. Um nickname conhecido
// é reconectado; um novo é criado e colocado na sala de espera.
// Uma conexão pertence a no máximo um nickname.
func (a *App) RegisterOrReconnect(nickname, connectionID string) (*player.Player, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, ErrInvalidNickname
	}

	a.mu.Lock()
	if owner, ok := a.byConnection[connectionID]; ok && owner.Nickname() != nickname {
		a.mu.Unlock()
		a.logger.Warn().Str("nickname", nickname).Str("owner", owner.Nickname()).Str("connectionId", connectionID).Msg("connection already bound, register refused")
		return nil, fmt.Errorf("register %q on %s: %w", nickname, connectionID, ErrConnectionInUse)
	}
	if p, ok := a.players[nickname]; ok {
		if old := p.ConnectionID(); old != connectionID && a.byConnection[old] == p {
			delete(a.byConnection, old)
		}
		p.Reconnect(connectionID)
		a.byConnection[connectionID] = p
		a.mu.Unlock()

		a.logger.Info().Str("nickname", nickname).Str("connectionId", connectionID).Msg("player reconnected")
		return p, nil
	}

	p := player.NewPlayer(nickname, connectionID)
	a.players[nickname] = p
	a.byConnection[connectionID] = p
	a.mu.Unlock()

	a.logger.Info().Str("nickname", nickname).Str("connectionId", connectionID).Msg("player registered")
	a.room.Join(p)
	return p, nil
}

// Disconnect marca o jogador como desconectado e o tira da sala de espera.
func (a *App) Disconnect(p *player.Player) {
	if p == nil {
		return
	}
	p.Disconnect()
	a.room.Leave(p)
	a.logger.Info().Str("nickname", p.Nickname()).Msg("player disconnected")
}

// DisconnectConnection é o gancho do transporte quando uma conexão cai.
func (a *App) DisconnectConnection(connectionID string) {
	p, ok := a.FindPlayerByConnectionID(connectionID)
	if !ok {
		a.logger.Debug().Str("connectionId", connectionID).Msg("disconnect from unregistered connection")
		return
	}
	// Uma conexão antiga não derruba um jogador que já reconectou em outra.
	if p.ConnectionID() != connectionID {
		return
	}
	a.Disconnect(p)
}

// EnqueuePlayer recoloca um jogador ocioso na sala de espera.
func (a *App) EnqueuePlayer(nickname string) (bool, error) {
	p, ok := a.FindPlayerByNickname(nickname)
	if !ok {
		return false, fmt.Errorf("enqueue %q: %w", nickname, ErrPlayerNotFound)
	}
	if p.InGame() {
		return false, fmt.Errorf("enqueue %q: %w", nickname, ErrPlayerInGame)
	}
	return a.room.Join(p), nil
}

func (a *App) FindPlayerByNickname(nickname string) (*player.Player, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	p, ok := a.players[nickname]
	return p, ok
}

func (a *App) FindPlayerByConnectionID(connectionID string) (*player.Player, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	p, ok := a.byConnection[connectionID]
	return p, ok
}

// FindSessionForNickname devolve a partida mais recente do jogador.
func (a *App) FindSessionForNickname(nickname string) (*Game, bool) {
	return a.games.latestFor(nickname)
}

func (a *App) FindSession(id string) (*Game, bool) {
	return a.games.get(id)
}

// Players devolve todos os jogadores conhecidos, ordenados por nickname.
func (a *App) Players() []*player.Player {
	a.mu.RLock()
	out := make([]*player.Player, 0, len(a.players))
	for _, p := range a.players {
		out = append(out, p)
	}
	a.mu.RUnlock()

	sortByNickname(out)
	return out
}

func (a *App) WaitingPlayers() []*player.Player {
	out := a.room.Members()
	sortByNickname(out)
	return out
}

func (a *App) Sessions() []*Game {
	return a.games.all()
}

// HandleReadiness encaminha o sinal para a partida em aberto do remetente.
func (a *App) HandleReadiness(connectionID string, kind ReadinessKind, score int) bool {
	p, ok := a.FindPlayerByConnectionID(connectionID)
	if !ok {
		a.logger.Debug().Str("connectionId", connectionID).Msg("readiness from unregistered connection, dropped")
		return false
	}
	g, ok := a.games.latestFor(p.Nickname())
	if !ok || g.IsFinished() {
		a.logger.Debug().Str("nickname", p.Nickname()).Msg("readiness without an open game, dropped")
		return false
	}
	return g.RecordReadiness(connectionID, kind, score)
}
