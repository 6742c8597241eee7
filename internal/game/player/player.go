//START OF FILE quizduel/internal/game/player/player.go
package player

import "sync"

// Player representa um jogador conhecido pelo servidor.
// O nickname é a identidade estável; o connectionID muda a cada reconexão.
type Player struct {
	mu sync.RWMutex

	nickname     string
	connectionID string
	connected    bool
	inGame       bool
	score        int
}

// View é a forma serializável de um Player, usada pela API e pelas mensagens.
type View struct {
	Nickname     string `json:"nickname"`
	ConnectionID string `json:"connectionId"`
	Connected    bool   `json:"connected"`
	InGame       bool   `json:"inGame"`
	Score        int    `json:"score"`
}

// NewPlayer cria um jogador conectado e fora de partida.
func NewPlayer(nickname, connectionID string) *Player {
	return &Player{
		nickname:     nickname,
		connectionID: connectionID,
		connected:    true,
	}
}

func (p *Player) Nickname() string { return p.nickname }

func (p *Player) ConnectionID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connectionID
}

func (p *Player) Connected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connected
}

func (p *Player) InGame() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.inGame
}

func (p *Player) Score() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.score
}

// Reconnect associa o jogador a uma nova conexão.
func (p *Player) Reconnect(connectionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connectionID = connectionID
	p.connected = true
}

// Disconnect marca o jogador como desconectado. O estado de partida não muda aqui.
func (p *Player) Disconnect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = false
}

// StartGame é chamado quando o jogador é sorteado para uma partida.
func (p *Player) StartGame() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inGame = true
}

// ResetAfterGame devolve o jogador ao estado ocioso, elegível para um novo sorteio.
func (p *Player) ResetAfterGame() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inGame = false
}

// SetScore guarda a última pontuação do quiz enviada pelo jogador.
func (p *Player) SetScore(score int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.score = score
}

func (p *Player) View() View {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return View{
		Nickname:     p.nickname,
		ConnectionID: p.connectionID,
		Connected:    p.connected,
		InGame:       p.inGame,
		Score:        p.score,
	}
}

//END OF FILE quizduel/internal/game/player/player.go
