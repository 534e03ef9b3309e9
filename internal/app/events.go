package app

import "tooza/internal/domain"

// EventKind identifies emitted app events for room dispatch.
type EventKind string

const (
	EventPlayerJoined     EventKind = "player_joined"
	EventPlayerLeft       EventKind = "player_left"
	EventGameStarted      EventKind = "game_started"
	EventDealerCardDrawn  EventKind = "dealer_card_drawn"
	EventDealerSelected   EventKind = "dealer_selected"
	EventDealerTie        EventKind = "dealer_tie"
	EventCardDealt        EventKind = "card_dealt"
	EventHandDealt        EventKind = "hand_dealt"
	EventDealingComplete  EventKind = "dealing_complete"
	EventCardPlayed       EventKind = "card_played"
	EventTrickComplete    EventKind = "trick_complete"
	EventPlayerEliminated EventKind = "player_eliminated"
	EventRoundStarted     EventKind = "round_started"
	EventRoundEnded       EventKind = "round_ended"
	EventGameEnded        EventKind = "game_ended"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	PlayerID string
	Username string
	IsAI     bool
}

type PlayerLeftPayload struct {
	PlayerID string
}

type GameStartedPayload struct {
	Phase    domain.Phase
	DealMode domain.DealMode
}

type DealerCardDrawnPayload struct {
	PlayerID string
	Card     domain.Card
}

type DealerSelectedPayload struct {
	DealerID string
}

type DealerTiePayload struct {
	Tied []string
}

type CardDealtPayload struct {
	PlayerID string
	Card     domain.Card
}

type HandDealtPayload struct {
	PlayerID string
	Hand     []domain.Card
}

type DealingCompletePayload struct {
	Round         int
	FirstPlayerID string
}

type CardPlayedPayload struct {
	PlayerID     string
	Card         domain.Card
	NextPlayerID string
}

type TrickCompletePayload struct {
	WinnerID   string
	Points     int
	PointsToID string
}

type PlayerEliminatedPayload struct {
	PlayerID string
	Points   int
}

type RoundStartedPayload struct {
	Phase    domain.Phase
	DealerID string
}

type RoundEndedPayload struct{}

type GameEndedPayload struct {
	WinnerID string
}
