package session

import (
	"errors"
	"fmt"

	"quizduel/internal/network"
)

var ErrUnknownCommand = errors.New("unknown message type")

// command é o conjunto fechado de mensagens aceitas do cliente.
type command interface{ isCommand() }

type registerCommand struct {
	Nickname string `json:"nickname"`
}

type unitsReadyCommand struct{}

type scoreCommand struct {
	Score int `json:"score"`
}

func (registerCommand) isCommand()   {}
func (unitsReadyCommand) isCommand() {}
func (scoreCommand) isCommand()      {}

func decodeCommand(msg network.Message) (command, error) {
	switch msg.Type {
	case network.TypeRegister:
		var c registerCommand
		if err := msg.DecodePayload(&c); err != nil {
			return nil, fmt.Errorf("decode %s: %w", msg.Type, err)
		}
		return c, nil
	case network.TypeUnitsReady:
		return unitsReadyCommand{}, nil
	case network.TypeScore:
		var c scoreCommand
		if err := msg.DecodePayload(&c); err != nil {
			return nil, fmt.Errorf("decode %s: %w", msg.Type, err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownCommand, msg.Type)
	}
}
