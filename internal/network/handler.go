//START OF FILE quizduel/internal/network/handler.go
package network

// EventHandler recebe os eventos de transporte do Hub.
//
// O Hub chama os três métodos a partir da sua própria goroutine, um evento
// por vez e na ordem em que chegaram. Enquanto um método roda, o Hub não
// registra nem remove clientes, então a implementação não pode bloquear:
// trabalho demorado vai para outra goroutine e respostas saem por Hub.Send,
// que nunca espera pelo cliente.
type EventHandler interface {
	// OnConnect roda depois que o cliente foi indexado; Send já o alcança.
	OnConnect(c *Client)

	// OnDisconnect roda depois que o cliente saiu do índice; IsConnected(c.ID()) é false.
	OnDisconnect(c *Client)

	// OnMessage recebe cada frame já decodificado. Frames malformados não chegam aqui.
	OnMessage(c *Client, msg Message)
}

//END OF FILE quizduel/internal/network/handler.go
