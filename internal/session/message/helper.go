package message

import (
	"fmt"

	"quizduel/internal/network"
)

// Sender é o canal de entrega de mensagens para uma conexão.
// O network.Hub implementa esta interface; os testes usam um gravador.
type Sender interface {
	Send(connectionID string, msg network.Message) error
	IsConnected(connectionID string) bool
}

// SendError envia apenas uma mensagem de erro para a conexão.
func SendError(sender Sender, connectionID, format string, args ...interface{}) error {
	return sender.Send(connectionID, CreateErrorResponse(fmt.Sprintf(format, args...)))
}
