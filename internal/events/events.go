// Package events publica o ciclo de vida das partidas para consumidores externos.
package events

import "time"

// Type identifica o evento; também é o último token do subject.
type Type string

const (
	TypeCreated       Type = "created"
	TypeWalkover      Type = "walkover"
	TypeBattleStarted Type = "battle_started"
	TypeFinished      Type = "finished"
	TypeCancelled     Type = "cancelled"
)

// Event é o corpo JSON publicado para cada transição de uma partida.
type Event struct {
	Type       Type      `json:"type"`
	SessionID  string    `json:"sessionId"`
	Players    []string  `json:"players"`
	Message    string    `json:"message,omitempty"`
	ResultCode *int      `json:"resultCode,omitempty"`
	At         time.Time `json:"at"`
}

// Publisher recebe eventos. Implementações não podem bloquear o jogo
// e tratam suas próprias falhas.
type Publisher interface {
	Publish(evt Event)
}

// Noop descarta todos os eventos. Usado quando NATS não está configurado.
type Noop struct{}

func (Noop) Publish(Event) {}
