//START OF FILE quizduel/internal/session/utils.go
package session

import (
	"slices"
	"strings"

	"quizduel/internal/game/player"
)

func sortByNickname(players []*player.Player) {
	slices.SortFunc(players, func(a, b *player.Player) int {
		return strings.Compare(a.Nickname(), b.Nickname())
	})
}

func nicknames(players [2]*player.Player) []string {
	return []string{players[0].Nickname(), players[1].Nickname()}
}

//END OF FILE quizduel/internal/session/utils.go
