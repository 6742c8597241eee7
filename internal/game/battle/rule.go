// battle/rule.go
package battle

import "math/rand/v2"

// Result é o código de resultado devolvido pelo motor de batalha.
type Result int

// Constantes para representar o resultado de uma comparação ou da batalha inteira.
const (
	FirstWins  Result = 1
	SecondWins Result = -1
	Draw       Result = 0
)

// unitTypes são os tipos de unidade disponíveis, na mesma ordem de beats.
var unitTypes = []string{"rock", "paper", "scissor"}

// beats define a regra primária do Jokenpo: a chave vence o valor.
var beats = map[string]string{
	"rock":    "scissor",
	"scissor": "paper",
	"paper":   "rock",
}

type unit struct {
	typo  string
	value uint8
}

// compare resolve um confronto entre duas unidades.
// O tipo decide primeiro; com tipos iguais, o valor desempata.
func compare(u1, u2 unit) Result {
	if beats[u1.typo] == u2.typo {
		return FirstWins
	}
	if beats[u2.typo] == u1.typo {
		return SecondWins
	}

	if u1.value > u2.value {
		return FirstWins
	}
	if u2.value > u1.value {
		return SecondWins
	}
	return Draw
}

type weightedValue struct {
	value  uint8
	weight int
}

// valueDistribution favorece valores baixos; a soma dos pesos é 100.
var valueDistribution = []weightedValue{
	{value: 1, weight: 14},
	{value: 2, weight: 14},
	{value: 3, weight: 14},
	{value: 4, weight: 14},
	{value: 5, weight: 12},
	{value: 6, weight: 10},
	{value: 7, weight: 7},
	{value: 8, weight: 6},
	{value: 9, weight: 5},
	{value: 10, weight: 4},
}

var totalWeight int

func init() {
	for _, wv := range valueDistribution {
		totalWeight += wv.weight
	}
}

func randomValue(r *rand.Rand) uint8 {
	roll := r.IntN(totalWeight)
	for _, wv := range valueDistribution {
		roll -= wv.weight
		if roll < 0 {
			return wv.value
		}
	}
	return valueDistribution[len(valueDistribution)-1].value
}

func randomUnit(r *rand.Rand) unit {
	return unit{
		typo:  unitTypes[r.IntN(len(unitTypes))],
		value: randomValue(r),
	}
}
