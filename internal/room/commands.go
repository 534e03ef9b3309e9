package room

import "tooza/internal/domain"

type cmdKind string

const (
	cmdJoin           cmdKind = "join"
	cmdLeave          cmdKind = "leave"
	cmdManageAI       cmdKind = "manageAI"
	cmdStartGame      cmdKind = "startGame"
	cmdDrawDealerCard cmdKind = "drawDealerCard"
	cmdConfirmDealer  cmdKind = "confirmDealer"
	cmdDealCard       cmdKind = "dealCard"
	cmdPlayCard       cmdKind = "playCard"
	cmdStartRound     cmdKind = "startRound"

	// cmdSnapshot is a read-only query answered on the room goroutine.
	cmdSnapshot cmdKind = "snapshot"

	// Internal commands enqueued by the room's own timers. They carry the
	// seq at scheduling time and are dropped when the room has moved on.
	cmdAutoAct   cmdKind = "autoAct"
	cmdForcePlay cmdKind = "forcePlay"
)

// command is one serialized room operation. Every mutation of room state
// flows through the command queue; nothing touches the game concurrently.
type command struct {
	kind    cmdKind
	actorID string

	player *domain.Player // join
	aiKey  string         // manageAI
	addAI  bool           // manageAI

	mode               domain.DealMode // startGame
	phase              int             // dealCard
	cardID             string          // playCard
	newDealerSelection bool            // startRound

	seq   uint64        // internal commands only
	snap  chan<- []byte // snapshot queries only
	reply chan error    // nil for internal commands
}
