package bot

// NewBrain creates the strategy for a roster difficulty. Unknown values
// get the basic strategy rather than an error: a misconfigured roster
// entry should still produce a playable seat.
func NewBrain(difficulty string) Brain {
	switch difficulty {
	case "hard":
		return &GreedyBrain{}
	default:
		return &BasicBrain{}
	}
}

// NewAgent builds an agent for a seated AI player.
func NewAgent(playerID string, identity BotIdentity) *Agent {
	return &Agent{
		PlayerID: playerID,
		Identity: identity,
		Strategy: NewBrain(identity.Difficulty),
	}
}
