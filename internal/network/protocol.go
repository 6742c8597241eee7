//START OF FILE quizduel/internal/network/protocol.go
package network

import (
	"encoding/json"
	"fmt"
)

// Message é o envelope padrão para toda a comunicação pelo websocket.
// Ele contém um tipo para roteamento e um payload com os dados.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Tipos de mensagem servidor -> cliente.
const (
	TypeConnected     = "CONNECTED"
	TypeRegistered    = "REGISTERED"
	TypeGameStarted   = "GAME_STARTED"
	TypeBattleStarted = "BATTLE_STARTED"
	TypeGameResult    = "GAME_RESULT"
	TypeError         = "ERROR"
)

// Tipos de mensagem cliente -> servidor.
const (
	TypeRegister   = "REGISTER"
	TypeUnitsReady = "UNITS_READY"
	TypeScore      = "SCORE"
)

// MaxMessageSize limita o tamanho de um frame lido do cliente.
const MaxMessageSize = 64 * 1024

// NewMessage serializa o payload e monta o envelope.
func NewMessage(msgType string, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: msgType}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	return Message{Type: msgType, Payload: data}, nil
}

// DecodePayload lê o payload bruto para dentro de target.
// Um payload vazio é aceito e deixa target intacto.
func (m Message) DecodePayload(target any) error {
	if len(m.Payload) == 0 || string(m.Payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(m.Payload, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", m.Type, err)
	}
	return nil
}

//END OF FILE quizduel/internal/network/protocol.go
