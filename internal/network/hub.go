package network

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// ErrClientNotFound indica que não há conexão ativa com o id pedido.
	ErrClientNotFound = errors.New("client not found")

	// ErrSendBufferFull indica um cliente lento demais; a mensagem foi descartada.
	ErrSendBufferFull = errors.New("client send buffer full")
)

// clientMessage empacota uma mensagem com o cliente que a enviou.
type clientMessage struct {
	client *Client
	msg    Message
}

// Hub mantém o conjunto de clientes ativos e roteia eventos para o handler.
type Hub struct {
	// Índice de clientes por id de conexão. Escrito só pela goroutine do Hub,
	// lido por Send/IsConnected de qualquer goroutine.
	mu      sync.RWMutex
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	incoming   chan clientMessage

	handler EventHandler
	done    chan struct{}
	logger  zerolog.Logger
}

// NewHub cria, inicializa e retorna um novo Hub.
func NewHub(handler EventHandler) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage),
		handler:    handler,
		done:       make(chan struct{}),
		logger:     log.With().Str("component", "hub").Logger(),
	}
}

// SetHandler troca o handler antes de Run. Permite montar Hub e App em qualquer ordem.
func (h *Hub) SetHandler(handler EventHandler) {
	h.handler = handler
}

// Run processa registros, saídas e mensagens até ctx ser cancelado.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info().Msg("hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.logger.Info().Msg("hub stopped")
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug().Str("connectionId", c.id).Int("clients", total).Msg("client registered")
			h.handler.OnConnect(c)

		case c := <-h.unregister:
			h.mu.Lock()
			current, ok := h.clients[c.id]
			if ok && current == c {
				delete(h.clients, c.id)
				close(c.send)
			}
			h.mu.Unlock()
			if ok && current == c {
				h.logger.Debug().Str("connectionId", c.id).Msg("client unregistered")
				h.handler.OnDisconnect(c)
			}

		case cm := <-h.incoming:
			h.handler.OnMessage(cm.client, cm.msg)
		}
	}
}

// Send entrega msg na fila de saída do cliente. Nunca bloqueia.
func (h *Hub) Send(connectionID string, msg Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[connectionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrClientNotFound, connectionID)
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrSendBufferFull, connectionID)
	}
}

// IsConnected diz se existe uma conexão viva com esse id.
func (h *Hub) IsConnected(connectionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[connectionID]
	return ok
}

// Done é fechado quando Run termina.
func (h *Hub) Done() <-chan struct{} { return h.done }

// ClientCount retorna o número de conexões registradas.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(ctx context.Context, c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-ctx.Done():
		return false
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) deliverIncoming(cm clientMessage) bool {
	select {
	case h.incoming <- cm:
		return true
	case <-h.done:
		return false
	}
}
