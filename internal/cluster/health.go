//START OF FILE quizduel/internal/cluster/health.go
package cluster

import (
	"encoding/json"
	"net/http"
	"sync"
)

// CheckFunc realiza uma verificação. Retorna erro se a verificação falhar.
type CheckFunc func() error

// HealthAggregator junta várias verificações nomeadas num único endpoint.
type HealthAggregator struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
}

type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func NewHealthAggregator() *HealthAggregator {
	return &HealthAggregator{
		checks: make(map[string]CheckFunc),
	}
}

// AddCheck registra ou substitui uma verificação.
func (h *HealthAggregator) AddCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Run executa todas as verificações e devolve as falhas por nome.
func (h *HealthAggregator) Run() map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	failures := make(map[string]string)
	for name, check := range h.checks {
		if err := check(); err != nil {
			failures[name] = err.Error()
		}
	}
	return failures
}

// Handler responde 200 se todas as verificações passarem e 503 caso contrário.
func (h *HealthAggregator) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		failures := h.Run()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if len(failures) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(healthReport{Status: "unhealthy", Checks: failures})
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(healthReport{Status: "healthy"})
	}
}

//END OF FILE quizduel/internal/cluster/health.go
