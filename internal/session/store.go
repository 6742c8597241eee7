package session

import "sync"

// DefaultSessionHistory é quantas partidas encerradas ficam guardadas.
const DefaultSessionHistory = 128

// gameStore guarda as partidas em ordem de criação, indexadas por id.
// Partidas encerradas além do limite de histórico são descartadas, mais antigas primeiro.
type gameStore struct {
	mu      sync.RWMutex
	byID    map[string]*Game
	order   []*Game
	history int
}

func newGameStore(history int) *gameStore {
	if history <= 0 {
		history = DefaultSessionHistory
	}
	return &gameStore{
		byID:    make(map[string]*Game),
		history: history,
	}
}

func (s *gameStore) add(g *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[g.ID] = g
	s.order = append(s.order, g)
}

func (s *gameStore) get(id string) (*Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.byID[id]
	return g, ok
}

// latestFor devolve a partida mais recente que contém o nickname.
func (s *gameStore) latestFor(nickname string) (*Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.order) - 1; i >= 0; i-- {
		if s.order[i].HasNickname(nickname) {
			return s.order[i], true
		}
	}
	return nil, false
}

func (s *gameStore) all() []*Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Game, len(s.order))
	copy(out, s.order)
	return out
}

func (s *gameStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// evict remove as partidas encerradas mais antigas até sobrar no máximo
// history delas. Partidas em andamento nunca são removidas.
func (s *gameStore) evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	finished := 0
	for _, g := range s.order {
		if g.IsFinished() {
			finished++
		}
	}
	excess := finished - s.history
	if excess <= 0 {
		return 0
	}

	kept := s.order[:0]
	removed := 0
	for _, g := range s.order {
		if removed < excess && g.IsFinished() {
			delete(s.byID, g.ID)
			removed++
			continue
		}
		kept = append(kept, g)
	}
	clear(s.order[len(kept):])
	s.order = kept
	return removed
}
