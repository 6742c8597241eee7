package battle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contender struct {
	nick  string
	score int
}

func (c contender) Nickname() string { return c.nick }
func (c contender) Score() int       { return c.score }

func TestCompareTypeBeatsValue(t *testing.T) {
	assert.Equal(t, FirstWins, compare(unit{"rock", 1}, unit{"scissor", 10}))
	assert.Equal(t, SecondWins, compare(unit{"rock", 10}, unit{"paper", 1}))
}

func TestCompareSameTypeUsesValue(t *testing.T) {
	assert.Equal(t, FirstWins, compare(unit{"paper", 5}, unit{"paper", 2}))
	assert.Equal(t, SecondWins, compare(unit{"paper", 2}, unit{"paper", 5}))
	assert.Equal(t, Draw, compare(unit{"paper", 3}, unit{"paper", 3}))
}

func TestSimulateIsDeterministicForSeed(t *testing.T) {
	sim := NewSimulator()
	a := contender{"alice", 4}
	b := contender{"bob", 2}

	first := sim.Simulate(a, b, 17)
	second := sim.Simulate(a, b, 17)

	assert.Equal(t, first, second)
	require.NotEmpty(t, first.Log)
	assert.True(t, strings.HasPrefix(first.Log, "alice fields 7 units, bob fields 5 units"))
}

func TestSimulateMessageMatchesCode(t *testing.T) {
	sim := NewSimulator()
	a := contender{"alice", 0}
	b := contender{"bob", 0}

	for seed := int64(0); seed < 20; seed++ {
		out := sim.Simulate(a, b, seed)
		switch out.Code {
		case FirstWins:
			assert.Contains(t, out.Message, "alice wins")
		case SecondWins:
			assert.Contains(t, out.Message, "bob wins")
		case Draw:
			assert.Contains(t, out.Message, "draw")
		default:
			t.Fatalf("unexpected result code %d", out.Code)
		}
	}
}

func TestArmySizeIsClamped(t *testing.T) {
	sim := NewSimulator()

	assert.Equal(t, 3, sim.armySize(-4))
	assert.Equal(t, 8, sim.armySize(5))
	assert.Equal(t, 13, sim.armySize(99))
}

func TestSingleRoundProducesOneLogLine(t *testing.T) {
	sim := NewSimulator()
	sim.MaxRounds = 1
	out := sim.Simulate(contender{"a", 0}, contender{"b", 0}, 3)
	assert.Equal(t, 2, strings.Count(out.Log, "\n"))
}
