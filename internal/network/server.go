//START OF FILE quizduel/internal/network/server.go
package network

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Server promove requisições HTTP para conexões WebSocket e as entrega ao Hub.
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewServer cria o Server. checkOrigin nil aceita qualquer origem.
func NewServer(hub *Hub, checkOrigin func(r *http.Request) bool) *Server {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin:     checkOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// ServeHTTP é o ponto de entrada para conexões de clientes em /ws.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.hub.logger.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	client := newClient(uuid.NewString(), conn, s.hub)

	if !s.hub.registerClient(r.Context(), client) {
		conn.Close()
		return
	}

	go client.writeLoop()
	go client.readLoop()
}

//END OF FILE quizduel/internal/network/server.go
