// Package quiz guarda o banco de perguntas servido aos jogadores.
// A pontuação é calculada pelo cliente e enviada na mensagem SCORE.
package quiz

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

//go:embed questions.json
var embeddedQuestions []byte

type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

var (
	loadOnce  sync.Once
	questions []Question
	loadErr   error
)

// Questions devolve o banco embutido, carregado uma única vez.
func Questions() ([]Question, error) {
	loadOnce.Do(func() {
		questions, loadErr = Parse(embeddedQuestions)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	out := make([]Question, len(questions))
	copy(out, questions)
	return out, nil
}

// Parse lê e valida um banco de perguntas em JSON.
func Parse(data []byte) ([]Question, error) {
	var qs []Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if len(qs) == 0 {
		return nil, errors.New("question bank is empty")
	}
	seen := make(map[int]struct{}, len(qs))
	for _, q := range qs {
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("question %d: duplicate id", q.ID)
		}
		seen[q.ID] = struct{}{}
		if len(q.Options) < 2 {
			return nil, fmt.Errorf("question %d: needs at least two options", q.ID)
		}
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return nil, fmt.Errorf("question %d: answer index %d out of range", q.ID, q.Answer)
		}
	}
	return qs, nil
}

// Score conta quantas respostas batem com o gabarito. Perguntas sem resposta valem zero.
func Score(qs []Question, answers map[int]int) int {
	score := 0
	for _, q := range qs {
		if a, ok := answers[q.ID]; ok && a == q.Answer {
			score++
		}
	}
	return score
}
