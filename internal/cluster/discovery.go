//START OF FILE quizduel/internal/cluster/discovery.go
package cluster

import (
	"errors"
	"fmt"
	"math/rand/v2"

	consul "github.com/hashicorp/consul/api"
)

var ErrNoHealthyInstance = errors.New("no healthy instance")

type healthAPI interface {
	Service(service, tag string, passingOnly bool, q *consul.QueryOptions) ([]*consul.ServiceEntry, *consul.QueryMeta, error)
}

// DiscoverAnyHealthy devolve "host:porta" de uma instância saudável escolhida ao acaso.
func DiscoverAnyHealthy(client *consul.Client, serviceName string) (string, error) {
	return discoverAnyHealthy(client.Health(), serviceName)
}

func discoverAnyHealthy(h healthAPI, serviceName string) (string, error) {
	services, _, err := h.Service(serviceName, "", true, nil)
	if err != nil {
		return "", fmt.Errorf("query %s: %w", serviceName, err)
	}
	if len(services) == 0 {
		return "", fmt.Errorf("%s: %w", serviceName, ErrNoHealthyInstance)
	}
	s := services[rand.IntN(len(services))]
	addr := s.Service.Address
	if addr == "" && s.Node != nil {
		addr = s.Node.Address
	}
	return fmt.Sprintf("%s:%d", addr, s.Service.Port), nil
}

//END OF FILE quizduel/internal/cluster/discovery.go
