package cluster

import (
	"fmt"

	consul "github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// agent é o pedaço de *consul.Agent usado no registro.
type agent interface {
	ServiceRegister(reg *consul.AgentServiceRegistration) error
	ServiceDeregister(serviceID string) error
}

// Registrar registra esta instância no Consul com um check HTTP em /health.
type Registrar struct {
	agent    agent
	name     string
	hostname string
	port     int
	logger   zerolog.Logger
}

func NewRegistrar(client *consul.Client, serviceName, hostname string, port int) *Registrar {
	return newRegistrar(client.Agent(), serviceName, hostname, port)
}

func newRegistrar(a agent, serviceName, hostname string, port int) *Registrar {
	return &Registrar{
		agent:    a,
		name:     serviceName,
		hostname: hostname,
		port:     port,
		logger:   log.With().Str("component", "cluster").Logger(),
	}
}

// ServiceID é único por host.
func (r *Registrar) ServiceID() string {
	return fmt.Sprintf("%s-%s", r.name, r.hostname)
}

func (r *Registrar) registration() *consul.AgentServiceRegistration {
	return &consul.AgentServiceRegistration{
		ID:   r.ServiceID(),
		Name: r.name,
		Port: r.port,
		Check: &consul.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", r.hostname, r.port),
			Timeout:                        "5s",
			Interval:                       "10s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}

func (r *Registrar) Register() error {
	if err := r.agent.ServiceRegister(r.registration()); err != nil {
		return fmt.Errorf("register %s in consul: %w", r.ServiceID(), err)
	}
	r.logger.Info().Str("serviceId", r.ServiceID()).Msg("service registered in consul")
	return nil
}

func (r *Registrar) Deregister() error {
	if err := r.agent.ServiceDeregister(r.ServiceID()); err != nil {
		return fmt.Errorf("deregister %s: %w", r.ServiceID(), err)
	}
	r.logger.Info().Str("serviceId", r.ServiceID()).Msg("service deregistered from consul")
	return nil
}
