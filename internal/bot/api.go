package bot

import "tooza/internal/domain"

// Brain is the interface all bot strategies implement. ChooseCard is only
// called when the player holds at least one card and it is their turn; the
// returned card must be legal for the current trick.
type Brain interface {
	ChooseCard(game *domain.Game, player *domain.Player) (domain.Card, error)
}
