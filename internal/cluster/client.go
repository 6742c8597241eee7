//START OF FILE quizduel/internal/cluster/client.go
package cluster

import (
	"fmt"
	"strings"

	consul "github.com/hashicorp/consul/api"
	"github.com/rs/zerolog/log"
)

// NewConsulClient tenta cada endereço da lista (separada por vírgula) até
// encontrar um agente que responda com um líder eleito.
func NewConsulClient(addrs string) (*consul.Client, error) {
	logger := log.With().Str("component", "cluster").Logger()

	for _, node := range strings.Split(addrs, ",") {
		node = strings.TrimSpace(node)
		if node == "" {
			continue
		}
		cfg := consul.DefaultConfig()
		cfg.Address = node

		client, err := consul.NewClient(cfg)
		if err != nil {
			logger.Warn().Err(err).Str("node", node).Msg("consul client")
			continue
		}
		if _, err := client.Status().Leader(); err != nil {
			logger.Warn().Err(err).Str("node", node).Msg("consul node did not answer")
			continue
		}

		logger.Info().Str("node", node).Msg("connected to consul")
		return client, nil
	}

	return nil, fmt.Errorf("no consul node available in %q", addrs)
}

//END OF FILE quizduel/internal/cluster/client.go
