package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizduel/internal/game/player"
)

func storeGame(id string, a, b *player.Player) *Game {
	return newGame(id, [2]*player.Player{a, b}, gameDeps{delivery: newRecorder()})
}

func TestLatestForReturnsNewestGame(t *testing.T) {
	s := newGameStore(10)
	alice := player.NewPlayer("alice", "c1")
	bob := player.NewPlayer("bob", "c2")
	carol := player.NewPlayer("carol", "c3")

	s.add(storeGame("g1", alice, bob))
	s.add(storeGame("g2", alice, carol))

	g, ok := s.latestFor("alice")
	require.True(t, ok)
	assert.Equal(t, "g2", g.ID)

	g, ok = s.latestFor("bob")
	require.True(t, ok)
	assert.Equal(t, "g1", g.ID)

	_, ok = s.latestFor("dave")
	assert.False(t, ok)

	g, ok = s.get("g1")
	require.True(t, ok)
	assert.True(t, g.HasNickname("bob"))
}

func TestEvictKeepsOpenGamesAndRecentHistory(t *testing.T) {
	s := newGameStore(2)
	a := player.NewPlayer("a", "c1")
	b := player.NewPlayer("b", "c2")

	for i := range 5 {
		g := storeGame(fmt.Sprintf("g%d", i), a, b)
		if i != 1 {
			g.finish(StateFinished, nil)
		}
		s.add(g)
	}

	assert.Equal(t, 2, s.evict())
	assert.Equal(t, 3, s.len())

	var ids []string
	for _, g := range s.all() {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []string{"g1", "g3", "g4"}, ids)

	_, ok := s.get("g0")
	assert.False(t, ok)
	assert.Zero(t, s.evict())
}
