//START OF FILE quizduel/internal/game/battle/simulator.go
package battle

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Contender é o que o motor precisa saber de cada lado da batalha.
type Contender interface {
	Nickname() string
	Score() int
}

// Outcome agrupa o código de resultado, a mensagem legível e o log da batalha.
type Outcome struct {
	Code    Result `json:"code"`
	Message string `json:"message"`
	Log     string `json:"log"`
}

// Engine é o motor de resultado: determinístico para os mesmos jogadores e seed.
type Engine interface {
	Simulate(first, second Contender, seed int64) Outcome
}

const (
	defaultBaseArmy  = 3
	defaultMaxBonus  = 10
	defaultMaxRounds = 50
)

// Simulator é o motor padrão: uma batalha de unidades de Jokenpo em que o
// tamanho de cada exército cresce com a pontuação do quiz.
type Simulator struct {
	BaseArmy  int
	MaxBonus  int
	MaxRounds int
}

// NewSimulator cria um Simulator com os valores padrão.
func NewSimulator() *Simulator {
	return &Simulator{
		BaseArmy:  defaultBaseArmy,
		MaxBonus:  defaultMaxBonus,
		MaxRounds: defaultMaxRounds,
	}
}

func (s *Simulator) armySize(score int) int {
	bonus := score
	if bonus < 0 {
		bonus = 0
	}
	if bonus > s.MaxBonus {
		bonus = s.MaxBonus
	}
	return s.BaseArmy + bonus
}

// Simulate executa a batalha rodada a rodada até que um exército acabe
// ou o limite de rodadas seja atingido.
func (s *Simulator) Simulate(first, second Contender, seed int64) Outcome {
	rng := rand.New(rand.NewPCG(uint64(seed), 1))

	army1 := s.armySize(first.Score())
	army2 := s.armySize(second.Score())

	var logs strings.Builder
	fmt.Fprintf(&logs, "%s fields %d units, %s fields %d units\n",
		first.Nickname(), army1, second.Nickname(), army2)

	for round := 1; round <= s.MaxRounds && army1 > 0 && army2 > 0; round++ {
		u1 := randomUnit(rng)
		u2 := randomUnit(rng)

		var outcome string
		switch compare(u1, u2) {
		case FirstWins:
			army2--
			outcome = first.Nickname() + " wins the round"
		case SecondWins:
			army1--
			outcome = second.Nickname() + " wins the round"
		case Draw:
			outcome = "tie"
		}
		fmt.Fprintf(&logs, "Round %d: %s's %s(%d) vs %s's %s(%d) -> %s\n",
			round, first.Nickname(), u1.typo, u1.value, second.Nickname(), u2.typo, u2.value, outcome)
	}

	result := Outcome{Log: logs.String()}
	switch {
	case army1 > army2:
		result.Code = FirstWins
		result.Message = fmt.Sprintf("%s wins the battle against %s!", first.Nickname(), second.Nickname())
	case army2 > army1:
		result.Code = SecondWins
		result.Message = fmt.Sprintf("%s wins the battle against %s!", second.Nickname(), first.Nickname())
	default:
		result.Code = Draw
		result.Message = fmt.Sprintf("The battle between %s and %s ended in a draw.", first.Nickname(), second.Nickname())
	}
	return result
}

//END OF FILE quizduel/internal/game/battle/simulator.go
