package session

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"quizduel/internal/events"
	"quizduel/internal/game/battle"
	"quizduel/internal/game/player"
	"quizduel/internal/network"
)

const (
	waitFor = 2 * time.Second
	tickFor = 5 * time.Millisecond
)

type delivered struct {
	to  string
	msg network.Message
}

// recorder faz o papel do Hub: grava tudo que seria entregue.
// Conexões em offline se comportam como fechadas no transporte.
type recorder struct {
	mu      sync.Mutex
	sent    []delivered
	offline map[string]bool
}

func newRecorder() *recorder {
	return &recorder{offline: make(map[string]bool)}
}

func (r *recorder) Send(connectionID string, msg network.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.offline[connectionID] {
		return fmt.Errorf("%w: %s", network.ErrClientNotFound, connectionID)
	}
	r.sent = append(r.sent, delivered{to: connectionID, msg: msg})
	return nil
}

func (r *recorder) IsConnected(connectionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.offline[connectionID]
}

func (r *recorder) drop(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offline[connectionID] = true
}

func (r *recorder) messagesTo(connectionID string) []network.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []network.Message
	for _, d := range r.sent {
		if d.to == connectionID {
			out = append(out, d.msg)
		}
	}
	return out
}

func (r *recorder) typesTo(connectionID string) []string {
	var out []string
	for _, m := range r.messagesTo(connectionID) {
		out = append(out, m.Type)
	}
	return out
}

func (r *recorder) lastTo(t *testing.T, connectionID string) network.Message {
	t.Helper()
	msgs := r.messagesTo(connectionID)
	require.NotEmpty(t, msgs, "nothing delivered to %s", connectionID)
	return msgs[len(msgs)-1]
}

// fakeEngine devolve sempre o mesmo resultado e guarda a chamada.
type fakeEngine struct {
	mu      sync.Mutex
	calls   int
	seed    int64
	scores  [2]int
	outcome battle.Outcome
}

func (f *fakeEngine) Simulate(first, second battle.Contender, seed int64) battle.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.seed = seed
	f.scores = [2]int{first.Score(), second.Score()}
	return f.outcome
}

func (f *fakeEngine) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type eventLog struct {
	mu    sync.Mutex
	types []events.Type
}

func (e *eventLog) Publish(evt events.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.types = append(e.types, evt.Type)
}

func (e *eventLog) all() []events.Type {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]events.Type(nil), e.types...)
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func pairOf(a, b *player.Player) [2]*player.Player {
	a.StartGame()
	b.StartGame()
	return [2]*player.Player{a, b}
}
