package network

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Tempo para aguardar por uma escrita na conexão.
	writeWait = 10 * time.Second

	// Tempo máximo para aguardar por uma resposta de pong do cliente.
	pongWait = 60 * time.Second

	// Frequência com que enviamos pings para o cliente. Deve ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10

	sendBufferSize = 256
)

// Client é a representação de um jogador conectado do ponto de vista do servidor.
type Client struct {
	// Identificador da conexão. É a "sala" privada do cliente.
	id string

	conn *websocket.Conn
	hub  *Hub

	// Canal bufferizado de saída. Só o Hub fecha este canal.
	send chan Message
}

func newClient(id string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		id:   id,
		conn: conn,
		hub:  hub,
		send: make(chan Message, sendBufferSize),
	}
}

// ID retorna o identificador da conexão.
func (c *Client) ID() string { return c.id }

// RemoteAddr retorna o endereço remoto, útil para logs.
func (c *Client) RemoteAddr() string {
	if c.conn == nil {
		return ""
	}
	return c.conn.RemoteAddr().String()
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.unregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn().Err(err).Str("connectionId", c.id).Str("remote", c.RemoteAddr()).Msg("unexpected close")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
			c.hub.logger.Debug().Str("connectionId", c.id).Msg("malformed frame")
			if reply, err := NewMessage(TypeError, map[string]string{"error": "malformed message"}); err == nil {
				_ = c.hub.Send(c.id, reply)
			}
			continue
		}

		if !c.hub.deliverIncoming(clientMessage{client: c, msg: msg}) {
			return
		}
	}
}

// writeLoop bombeia mensagens do canal 'send' para a conexão WebSocket.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			// O Hub fechou o canal: o cliente foi desregistrado.
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				c.hub.logger.Warn().Err(err).Str("connectionId", c.id).Msg("write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
