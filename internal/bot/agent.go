package bot

import "tooza/internal/domain"

// Agent is one autonomous seat: an identity plus a strategy. The room
// actor owns the agent and calls it only from the room goroutine.
type Agent struct {
	PlayerID string
	Identity BotIdentity
	Strategy Brain
}

// ChooseCard picks the agent's play for the current trick.
func (a *Agent) ChooseCard(game *domain.Game) (domain.Card, error) {
	player, ok := game.PlayerByID(a.PlayerID)
	if !ok {
		return domain.Card{}, domain.ErrPlayerNotFound
	}
	return a.Strategy.ChooseCard(game, player)
}
