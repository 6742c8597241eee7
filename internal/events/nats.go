package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// conn é o pedaço de *nats.Conn que o publisher usa.
type conn interface {
	Publish(subject string, data []byte) error
	Status() nats.Status
	Drain() error
}

// NATSPublisher publica eventos em "<prefix>.session.<type>".
type NATSPublisher struct {
	nc     conn
	prefix string
	logger zerolog.Logger
}

// NewNATSPublisher conecta ao servidor NATS e devolve o publisher.
func NewNATSPublisher(url, prefix, clientName string) (*NATSPublisher, error) {
	logger := log.With().Str("component", "events").Logger()

	nc, err := nats.Connect(url,
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	logger.Info().Str("url", nc.ConnectedUrl()).Msg("nats connected")
	return newNATSPublisher(nc, prefix), nil
}

func newNATSPublisher(nc conn, prefix string) *NATSPublisher {
	return &NATSPublisher{
		nc:     nc,
		prefix: prefix,
		logger: log.With().Str("component", "events").Logger(),
	}
}

// Subject devolve o subject usado para um tipo de evento.
func (p *NATSPublisher) Subject(t Type) string {
	return fmt.Sprintf("%s.session.%s", p.prefix, t)
}

func (p *NATSPublisher) Publish(evt Event) {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error().Err(err).Str("sessionId", evt.SessionID).Msg("marshal event")
		return
	}
	if err := p.nc.Publish(p.Subject(evt.Type), data); err != nil {
		p.logger.Warn().Err(err).Str("sessionId", evt.SessionID).Str("type", string(evt.Type)).Msg("publish event")
	}
}

// Check é usado pelo agregador de saúde.
func (p *NATSPublisher) Check() error {
	if status := p.nc.Status(); status != nats.CONNECTED {
		return errors.New("nats status: " + status.String())
	}
	return nil
}

// Close drena as mensagens pendentes e fecha a conexão.
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}
