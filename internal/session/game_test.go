package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizduel/internal/events"
	"quizduel/internal/game/battle"
	"quizduel/internal/game/player"
	"quizduel/internal/network"
	"quizduel/internal/session/message"
)

type gameFixture struct {
	rec    *recorder
	engine *fakeEngine
	events *eventLog
	alice  *player.Player
	bob    *player.Player
	game   *Game
}

func newGameFixture(t *testing.T, readyTimeout time.Duration) *gameFixture {
	t.Helper()
	f := &gameFixture{
		rec:    newRecorder(),
		engine: &fakeEngine{outcome: battle.Outcome{Code: battle.FirstWins, Message: "alice wins the battle against bob!", Log: "round 1\n"}},
		events: &eventLog{},
		alice:  player.NewPlayer("alice", "c1"),
		bob:    player.NewPlayer("bob", "c2"),
	}
	f.game = newGame("g1", pairOf(f.alice, f.bob), gameDeps{
		delivery:     f.rec,
		engine:       f.engine,
		events:       f.events,
		seed:         DefaultBattleSeed,
		readyTimeout: readyTimeout,
	})
	return f
}

func signalAll(g *Game) bool {
	var fired bool
	for _, sig := range []readinessSignal{
		{connectionID: "c1", kind: SetupComplete},
		{connectionID: "c2", kind: SetupComplete},
		{connectionID: "c1", kind: ScoreSubmitted, score: 7},
		{connectionID: "c2", kind: ScoreSubmitted, score: 4},
	} {
		fired = g.applyReadiness(sig)
	}
	return fired
}

func decodeResult(t *testing.T, msg network.Message) message.ResultPayload {
	t.Helper()
	require.Equal(t, network.TypeGameResult, msg.Type)
	var res message.ResultPayload
	require.NoError(t, msg.DecodePayload(&res))
	return res
}

func TestMatchFormedNotifiesBothPlayers(t *testing.T) {
	f := newGameFixture(t, 0)

	assert.True(t, f.game.matchFormed())

	assert.Equal(t, []string{network.TypeGameStarted}, f.rec.typesTo("c1"))
	assert.Equal(t, []string{network.TypeGameStarted}, f.rec.typesTo("c2"))
	assert.Equal(t, StateCreated, f.game.State())
	assert.Equal(t, []events.Type{events.TypeCreated}, f.events.all())
}

func TestMatchFormedWalkoverWhenPlayerFlagDown(t *testing.T) {
	f := newGameFixture(t, 0)
	f.bob.Disconnect()

	assert.False(t, f.game.matchFormed())

	res := decodeResult(t, f.rec.lastTo(t, "c1"))
	assert.Equal(t, walkoverMessage, res.Message)
	assert.Empty(t, res.Logs)
	assert.Empty(t, f.rec.messagesTo("c2"))

	assert.Equal(t, StateWalkover, f.game.State())
	assert.False(t, f.alice.InGame())
	assert.False(t, f.bob.InGame())
	assert.Zero(t, f.engine.callCount())
	assert.Equal(t, []events.Type{events.TypeWalkover}, f.events.all())
}

func TestMatchFormedWalkoverWhenTransportGone(t *testing.T) {
	f := newGameFixture(t, 0)
	f.rec.drop("c1")

	assert.False(t, f.game.matchFormed())

	res := decodeResult(t, f.rec.lastTo(t, "c2"))
	assert.Equal(t, walkoverMessage, res.Message)
	assert.Equal(t, StateWalkover, f.game.State())
}

func TestApplyReadinessTransitionsOnce(t *testing.T) {
	f := newGameFixture(t, 0)

	assert.False(t, f.game.applyReadiness(readinessSignal{connectionID: "stranger", kind: SetupComplete}))
	assert.False(t, f.game.applyReadiness(readinessSignal{connectionID: "c1", kind: SetupComplete}))
	assert.False(t, f.game.applyReadiness(readinessSignal{connectionID: "c1", kind: SetupComplete}))

	r, ok := f.game.ReadinessOf("c1")
	require.True(t, ok)
	assert.Equal(t, Readiness{SetupComplete: true}, r)
	_, ok = f.game.ReadinessOf("stranger")
	assert.False(t, ok)

	assert.True(t, signalAll(f.game))
	assert.Equal(t, StateBattleRunning, f.game.State())
	assert.Equal(t, 7, f.alice.Score())
	assert.Equal(t, 4, f.bob.Score())

	// Depois da transição novos sinais não disparam outra batalha.
	assert.False(t, f.game.applyReadiness(readinessSignal{connectionID: "c2", kind: ScoreSubmitted, score: 9}))
}

func TestSetupAloneDoesNotStartBattle(t *testing.T) {
	f := newGameFixture(t, 0)

	f.game.applyReadiness(readinessSignal{connectionID: "c1", kind: SetupComplete})
	f.game.applyReadiness(readinessSignal{connectionID: "c2", kind: SetupComplete})
	fired := f.game.applyReadiness(readinessSignal{connectionID: "c1", kind: ScoreSubmitted, score: 1})

	assert.False(t, fired)
	assert.Equal(t, StateCreated, f.game.State())
}

func TestRunBattleDeliversResult(t *testing.T) {
	f := newGameFixture(t, 0)
	require.True(t, signalAll(f.game))

	f.game.runBattle()

	for _, conn := range []string{"c1", "c2"} {
		assert.Equal(t, []string{network.TypeBattleStarted, network.TypeGameResult}, f.rec.typesTo(conn))
		res := decodeResult(t, f.rec.lastTo(t, conn))
		assert.Equal(t, "alice wins the battle against bob!", res.Message)
		assert.Equal(t, "round 1\n", res.Logs)
	}

	assert.Equal(t, StateFinished, f.game.State())
	assert.True(t, f.game.IsFinished())
	assert.Equal(t, int64(DefaultBattleSeed), f.engine.seed)
	assert.Equal(t, [2]int{7, 4}, f.engine.scores)
	assert.False(t, f.alice.InGame())
	assert.False(t, f.bob.InGame())

	out, ok := f.game.Result()
	require.True(t, ok)
	assert.Equal(t, battle.FirstWins, out.Code)
	assert.Equal(t, []events.Type{events.TypeBattleStarted, events.TypeFinished}, f.events.all())
}

func TestRunBattleSkipsDisconnectedPlayer(t *testing.T) {
	f := newGameFixture(t, 0)
	require.True(t, signalAll(f.game))
	f.bob.Disconnect()

	f.game.runBattle()

	assert.Equal(t, network.TypeGameResult, f.rec.lastTo(t, "c1").Type)
	assert.NotContains(t, f.rec.typesTo("c2"), network.TypeGameResult)
}

func TestGameActorRunsToCompletion(t *testing.T) {
	f := newGameFixture(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.game.Start(ctx)
	require.Eventually(t, func() bool { return len(f.rec.messagesTo("c2")) == 1 }, waitFor, tickFor)

	assert.True(t, f.game.RecordReadiness("c1", SetupComplete, 0))
	assert.True(t, f.game.RecordReadiness("c2", SetupComplete, 0))
	assert.True(t, f.game.RecordReadiness("c1", ScoreSubmitted, 3))
	assert.True(t, f.game.RecordReadiness("c2", ScoreSubmitted, 5))

	select {
	case <-f.game.Done():
	case <-time.After(waitFor):
		t.Fatal("game did not finish")
	}
	assert.Equal(t, StateFinished, f.game.State())
	assert.Equal(t, 1, f.engine.callCount())
	assert.False(t, f.game.RecordReadiness("c1", SetupComplete, 0))
}

func TestReadyTimeoutCancelsGame(t *testing.T) {
	f := newGameFixture(t, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.game.Start(ctx)
	f.game.RecordReadiness("c1", SetupComplete, 0)

	require.Eventually(t, func() bool { return f.game.State() == StateCancelled }, waitFor, tickFor)
	res := decodeResult(t, f.rec.lastTo(t, "c1"))
	assert.Equal(t, cancelledMessage, res.Message)
	assert.False(t, f.alice.InGame())
	assert.Zero(t, f.engine.callCount())
}

func TestGameViewSnapshot(t *testing.T) {
	f := newGameFixture(t, 0)
	f.game.applyReadiness(readinessSignal{connectionID: "c2", kind: ScoreSubmitted, score: 2})

	v := f.game.View()

	assert.Equal(t, "g1", v.ID)
	assert.Equal(t, StateCreated, v.State)
	assert.Equal(t, "alice", v.Players[0].Nickname)
	assert.Equal(t, Readiness{ScoreSubmitted: true}, v.Readiness["c2"])
	assert.Nil(t, v.Result)
}

func TestRecordReadinessMergesRepeatedSignals(t *testing.T) {
	f := newGameFixture(t, 0)

	for i := range 100 {
		require.True(t, f.game.RecordReadiness("c1", ScoreSubmitted, i))
	}
	require.True(t, f.game.RecordReadiness("c1", SetupComplete, 0))

	pending := f.game.takePending()
	require.Len(t, pending, 2)
	assert.Equal(t, readinessSignal{connectionID: "c1", kind: ScoreSubmitted, score: 99}, pending[0])
	assert.Equal(t, SetupComplete, pending[1].kind)
	assert.Empty(t, f.game.takePending())
}

func TestFloodedSignalsStillStartBattle(t *testing.T) {
	f := newGameFixture(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.game.Start(ctx)

	for i := range 200 {
		f.game.RecordReadiness("c1", ScoreSubmitted, i)
		f.game.RecordReadiness("c2", SetupComplete, 0)
	}
	f.game.RecordReadiness("c1", SetupComplete, 0)
	f.game.RecordReadiness("c2", ScoreSubmitted, 3)

	select {
	case <-f.game.Done():
	case <-time.After(waitFor):
		t.Fatal("battle did not finish")
	}
	assert.Equal(t, StateFinished, f.game.State())
	assert.Equal(t, 1, f.engine.callCount())
	assert.Equal(t, 3, f.bob.Score())
}
