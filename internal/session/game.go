package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"quizduel/internal/events"
	"quizduel/internal/game/battle"
	"quizduel/internal/game/player"
	"quizduel/internal/session/message"
)

// State é a fase atual de uma partida.
type State string

const (
	StateCreated       State = "created"
	StateBattleRunning State = "battle_running"
	StateFinished      State = "finished"
	StateWalkover      State = "walkover"
	StateCancelled     State = "cancelled"
)

// Terminal indica que a partida não aceita mais sinais.
func (s State) Terminal() bool {
	return s == StateFinished || s == StateWalkover || s == StateCancelled
}

// ReadinessKind é o conjunto fechado de sinais de prontidão.
type ReadinessKind int

const (
	SetupComplete ReadinessKind = iota + 1
	ScoreSubmitted
)

func (k ReadinessKind) String() string {
	switch k {
	case SetupComplete:
		return "setup_complete"
	case ScoreSubmitted:
		return "score_submitted"
	default:
		return fmt.Sprintf("readiness(%d)", int(k))
	}
}

// Readiness são as duas flags independentes de um jogador.
type Readiness struct {
	SetupComplete  bool `json:"setupComplete"`
	ScoreSubmitted bool `json:"scoreSubmitted"`
}

func (r Readiness) complete() bool { return r.SetupComplete && r.ScoreSubmitted }

const (
	DefaultBattleSeed = 17

	walkoverMessage  = "Player disconnected, walkover"
	cancelledMessage = "Match cancelled, players not ready"
)

type readinessSignal struct {
	connectionID string
	kind         ReadinessKind
	score        int
}

// gameDeps são os colaboradores externos injetados em cada partida.
type gameDeps struct {
	delivery     message.Sender
	engine       battle.Engine
	events       events.Publisher
	seed         int64
	readyTimeout time.Duration
}

// Game é a máquina de estados de uma partida entre dois jogadores.
// Uma goroutine por partida consome os sinais em ordem de chegada.
type Game struct {
	ID        string
	CreatedAt time.Time

	players [2]*player.Player
	deps    gameDeps

	mu    sync.RWMutex
	state State
	// Chave: id de conexão de cada jogador no momento da criação.
	readiness map[string]*Readiness
	seats     map[string]*player.Player
	result    *battle.Outcome

	// Sinais ainda não aplicados, no máximo um por (conexão, tipo).
	sigMu   sync.Mutex
	pending []readinessSignal
	wake    chan struct{}

	done   chan struct{}
	logger zerolog.Logger
}

func newGame(id string, players [2]*player.Player, deps gameDeps) *Game {
	g := &Game{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		players:   players,
		deps:      deps,
		state:     StateCreated,
		readiness: make(map[string]*Readiness, 2),
		seats:     make(map[string]*player.Player, 2),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
		logger:    log.With().Str("component", "game").Str("sessionId", id).Logger(),
	}
	for _, p := range players {
		connID := p.ConnectionID()
		g.readiness[connID] = &Readiness{}
		g.seats[connID] = p
	}
	return g
}

func (g *Game) Players() [2]*player.Player { return g.players }

func (g *Game) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// IsFinished é verdadeiro para qualquer estado terminal.
func (g *Game) IsFinished() bool {
	return g.State().Terminal()
}

// HasNickname diz se um dos dois jogadores tem esse nickname.
func (g *Game) HasNickname(nickname string) bool {
	return g.players[0].Nickname() == nickname || g.players[1].Nickname() == nickname
}

// ReadinessOf devolve as flags registradas para a conexão.
func (g *Game) ReadinessOf(connectionID string) (Readiness, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.readiness[connectionID]
	if !ok {
		return Readiness{}, false
	}
	return *r, true
}

// Result devolve o resultado da batalha, se ela já rodou.
func (g *Game) Result() (battle.Outcome, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.result == nil {
		return battle.Outcome{}, false
	}
	return *g.result, true
}

// Done é fechado quando a goroutine da partida termina.
func (g *Game) Done() <-chan struct{} { return g.done }

// Start inicia a goroutine da partida. O primeiro passo é avisar os jogadores.
func (g *Game) Start(ctx context.Context) {
	go g.run(ctx)
}

// RecordReadiness enfileira um sinal para a partida. Nunca bloqueia e nunca
// descarta: um sinal repetido da mesma conexão e do mesmo tipo é fundido ao
// pendente, valendo a última pontuação. Devolve false se a partida já terminou.
func (g *Game) RecordReadiness(connectionID string, kind ReadinessKind, score int) bool {
	select {
	case <-g.done:
		return false
	default:
	}

	g.sigMu.Lock()
	merged := false
	for i := range g.pending {
		if g.pending[i].connectionID == connectionID && g.pending[i].kind == kind {
			g.pending[i].score = score
			merged = true
			break
		}
	}
	if !merged {
		g.pending = append(g.pending, readinessSignal{connectionID: connectionID, kind: kind, score: score})
	}
	g.sigMu.Unlock()

	select {
	case g.wake <- struct{}{}:
	default:
	}
	return true
}

// takePending esvazia a fila de sinais, em ordem de chegada.
func (g *Game) takePending() []readinessSignal {
	g.sigMu.Lock()
	defer g.sigMu.Unlock()
	out := g.pending
	g.pending = nil
	return out
}

func (g *Game) run(ctx context.Context) {
	defer close(g.done)

	if !g.matchFormed() {
		return
	}

	var timeout <-chan time.Time
	if g.deps.readyTimeout > 0 {
		timer := time.NewTimer(g.deps.readyTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			g.logger.Debug().Msg("game stopped before completion")
			return
		case <-timeout:
			g.cancel()
			return
		case <-g.wake:
			for _, sig := range g.takePending() {
				if g.applyReadiness(sig) {
					g.runBattle()
					return
				}
			}
		}
	}
}

// matchFormed avisa cada jogador em privado, ou declara W.O. se alguém já caiu.
// Devolve false quando a partida terminou aqui.
func (g *Game) matchFormed() bool {
	if g.allConnected() {
		msg := message.CreateGameStarted("game started")
		for _, p := range g.players {
			g.sendTo(p, msg)
			g.logger.Info().Str("nickname", p.Nickname()).Str("connectionId", p.ConnectionID()).Msg("sent game started")
		}
		g.publish(events.TypeCreated, "", nil)
		return true
	}

	g.logger.Info().Strs("players", nicknames(g.players)).Msg("player disconnected before match start, walkover")
	g.sendResults(walkoverMessage, "")
	g.finish(StateWalkover, nil)
	g.publish(events.TypeWalkover, walkoverMessage, nil)
	return false
}

// applyReadiness registra um sinal e devolve true quando ele completou
// a última flag pendente, levando a partida a battle_running.
func (g *Game) applyReadiness(sig readinessSignal) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateCreated {
		return false
	}
	r, ok := g.readiness[sig.connectionID]
	if !ok {
		g.logger.Debug().Str("connectionId", sig.connectionID).Msg("signal from a connection outside this game, ignored")
		return false
	}

	switch sig.kind {
	case SetupComplete:
		r.SetupComplete = true
	case ScoreSubmitted:
		r.ScoreSubmitted = true
		g.seats[sig.connectionID].SetScore(sig.score)
	default:
		g.logger.Warn().Str("kind", sig.kind.String()).Msg("unknown readiness kind")
		return false
	}
	g.logger.Info().Str("connectionId", sig.connectionID).Str("kind", sig.kind.String()).Msg("player readiness recorded")

	for _, other := range g.readiness {
		if !other.complete() {
			return false
		}
	}
	g.state = StateBattleRunning
	return true
}

func (g *Game) runBattle() {
	first, second := g.players[0], g.players[1]
	g.logger.Info().Str("first", first.Nickname()).Str("second", second.Nickname()).Msg("start battle")

	started := message.CreateBattleStarted(fmt.Sprintf("Battle between %s and %s started!", first.Nickname(), second.Nickname()))
	for _, p := range g.players {
		g.sendTo(p, started)
	}
	g.publish(events.TypeBattleStarted, "", nil)

	outcome := g.deps.engine.Simulate(first, second, g.deps.seed)
	g.logger.Info().Int("result", int(outcome.Code)).Msg("battle result")

	g.sendResults(outcome.Message, outcome.Log)
	g.finish(StateFinished, &outcome)

	code := int(outcome.Code)
	g.publish(events.TypeFinished, outcome.Message, &code)
}

// cancel encerra uma partida que não ficou pronta dentro do prazo.
func (g *Game) cancel() {
	g.mu.Lock()
	if g.state != StateCreated {
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	g.logger.Info().Dur("timeout", g.deps.readyTimeout).Msg("players not ready in time, cancelling game")
	g.sendResults(cancelledMessage, "")
	g.finish(StateCancelled, nil)
	g.publish(events.TypeCancelled, cancelledMessage, nil)
}
