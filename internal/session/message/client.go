package message

//Mensagens no sentido servidor -> cliente
import (
	"encoding/json"

	"quizduel/internal/game/player"
	"quizduel/internal/network"
)

// TextPayload carrega uma mensagem legível.
type TextPayload struct {
	Message string `json:"message"`
}

// ResultPayload é o formato do GAME_RESULT, tanto para vitória normal quanto para W.O.
type ResultPayload struct {
	Message string `json:"message"`
	Logs    string `json:"logs"`
}

// ErrorPayload define a estrutura de uma resposta de erro.
type ErrorPayload struct {
	Error string `json:"error"`
}

// ConnectedPayload informa ao cliente o id da sua conexão.
type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

func build(msgType string, payload any) network.Message {
	payloadBytes, _ := json.Marshal(payload)
	return network.Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
}

func CreateConnected(connectionID string) network.Message {
	return build(network.TypeConnected, ConnectedPayload{ConnectionID: connectionID})
}

func CreateRegistered(view player.View) network.Message {
	return build(network.TypeRegistered, view)
}

func CreateGameStarted(text string) network.Message {
	return build(network.TypeGameStarted, TextPayload{Message: text})
}

func CreateBattleStarted(text string) network.Message {
	return build(network.TypeBattleStarted, TextPayload{Message: text})
}

// CreateGameResult monta o resultado final; logs vazio indica W.O.
func CreateGameResult(text, logs string) network.Message {
	return build(network.TypeGameResult, ResultPayload{Message: text, Logs: logs})
}

func CreateErrorResponse(errorMsg string) network.Message {
	return build(network.TypeError, ErrorPayload{Error: errorMsg})
}
