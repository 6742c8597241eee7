//START OF FILE quizduel/internal/session/waiting_room.go
package session

import (
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"quizduel/internal/game/player"
)

// DefaultCapacity é a capacidade padrão da sala de espera.
const DefaultCapacity = 2

// ErrInsufficientMembers é devolvido quando se tenta sortear uma dupla com menos de dois jogadores.
var ErrInsufficientMembers = errors.New("waiting room has fewer than two members")

// WaitingRoom é o conjunto limitado de jogadores aguardando partida.
// Join, Leave e o sorteio compartilham uma única seção crítica.
type WaitingRoom struct {
	mu       sync.Mutex
	capacity int
	members  map[*player.Player]struct{}
	rng      *rand.Rand
	logger   zerolog.Logger
}

// NewWaitingRoom cria a sala. capacity <= 0 usa DefaultCapacity; rng nil usa uma fonte aleatória.
func NewWaitingRoom(capacity int, rng *rand.Rand) *WaitingRoom {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &WaitingRoom{
		capacity: capacity,
		members:  make(map[*player.Player]struct{}, capacity),
		rng:      rng,
		logger:   log.With().Str("component", "waiting_room").Logger(),
	}
}

func (w *WaitingRoom) Capacity() int { return w.capacity }

// Join adiciona o jogador se a sala não estiver cheia e ele ainda não estiver nela.
func (w *WaitingRoom) Join(p *player.Player) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.members[p]; ok {
		return false
	}
	if len(w.members) >= w.capacity {
		w.logger.Debug().Str("nickname", p.Nickname()).Msg("waiting room full, join ignored")
		return false
	}
	w.members[p] = struct{}{}
	w.logger.Info().Str("nickname", p.Nickname()).Int("size", len(w.members)).Msg("player joined waiting room")
	return true
}

// Leave remove o jogador se ele estiver na sala.
func (w *WaitingRoom) Leave(p *player.Player) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.members[p]; !ok {
		return false
	}
	delete(w.members, p)
	w.logger.Info().Str("nickname", p.Nickname()).Int("size", len(w.members)).Msg("player left waiting room")
	return true
}

func (w *WaitingRoom) Contains(p *player.Player) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.members[p]
	return ok
}

func (w *WaitingRoom) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.members)
}

func (w *WaitingRoom) IsFull() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.members) == w.capacity
}

// Members devolve uma cópia dos membros atuais, sem ordem definida.
func (w *WaitingRoom) Members() []*player.Player {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*player.Player, 0, len(w.members))
	for p := range w.members {
		out = append(out, p)
	}
	return out
}

// DrawPair sorteia dois membros distintos, remove ambos da sala e os marca como em jogo.
func (w *WaitingRoom) DrawPair() ([2]*player.Player, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.drawPairLocked()
}

// DrawPairIfFull faz o check-then-draw do matchmaker como um único passo atômico.
func (w *WaitingRoom) DrawPairIfFull() ([2]*player.Player, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.members) != w.capacity {
		return [2]*player.Player{}, false, nil
	}
	pair, err := w.drawPairLocked()
	if err != nil {
		return pair, false, err
	}
	return pair, true, nil
}

func (w *WaitingRoom) drawPairLocked() ([2]*player.Player, error) {
	var pair [2]*player.Player
	if len(w.members) < 2 {
		return pair, ErrInsufficientMembers
	}

	// Ordena por nickname para que o sorteio dependa apenas do rng, não da ordem do map.
	candidates := make([]*player.Player, 0, len(w.members))
	for p := range w.members {
		candidates = append(candidates, p)
	}
	sortByNickname(candidates)

	i := w.rng.IntN(len(candidates))
	j := w.rng.IntN(len(candidates) - 1)
	if j >= i {
		j++
	}
	pair[0], pair[1] = candidates[i], candidates[j]

	for _, p := range pair {
		delete(w.members, p)
		p.StartGame()
	}
	w.logger.Info().
		Str("first", pair[0].Nickname()).
		Str("second", pair[1].Nickname()).
		Int("remaining", len(w.members)).
		Msg("pair drawn from waiting room")
	return pair, nil
}

//END OF FILE quizduel/internal/session/waiting_room.go
