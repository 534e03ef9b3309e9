package domain

import "errors"

// Engine errors. These are the only failures a client command can surface;
// none of them mutate room state and none are fatal to the room.
var (
	ErrRoomFull          = errors.New("room is full")
	ErrRoomNotFound      = errors.New("room not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrInvalidPhase      = errors.New("command not valid in current phase")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrCardNotOwned      = errors.New("card is not in your hand")
	ErrMustFollowSuit    = errors.New("must follow the calling suit")
	ErrAlreadyDrawn      = errors.New("dealer card already drawn")
	ErrCapacityExceeded  = errors.New("room capacity exceeded")
	ErrTooFewPlayers     = errors.New("not enough players to start")
	ErrPlayerEliminated  = errors.New("player is eliminated")
	ErrNotDealer         = errors.New("only the dealer may do that")
	ErrDealerNotResolved = errors.New("dealer draw-off not finished")
)

// ErrKind maps an engine error to the stable kind string carried by the
// wire-level error event.
func ErrKind(err error) string {
	switch {
	case errors.Is(err, ErrRoomFull):
		return "ErrRoomFull"
	case errors.Is(err, ErrRoomNotFound):
		return "ErrRoomNotFound"
	case errors.Is(err, ErrPlayerNotFound):
		return "ErrPlayerNotFound"
	case errors.Is(err, ErrInvalidPhase):
		return "ErrInvalidPhase"
	case errors.Is(err, ErrNotYourTurn):
		return "ErrNotYourTurn"
	case errors.Is(err, ErrCardNotOwned):
		return "ErrCardNotOwned"
	case errors.Is(err, ErrMustFollowSuit):
		return "ErrMustFollowSuit"
	case errors.Is(err, ErrAlreadyDrawn):
		return "ErrAlreadyDrawn"
	case errors.Is(err, ErrCapacityExceeded):
		return "ErrCapacityExceeded"
	case errors.Is(err, ErrTooFewPlayers):
		return "ErrTooFewPlayers"
	case errors.Is(err, ErrPlayerEliminated):
		return "ErrPlayerEliminated"
	case errors.Is(err, ErrNotDealer):
		return "ErrNotDealer"
	case errors.Is(err, ErrDealerNotResolved):
		return "ErrDealerNotResolved"
	default:
		return "ErrInternal"
	}
}
