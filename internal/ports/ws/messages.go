package ws

import "encoding/json"

// Envelope is the JSON frame for WebSocket messages in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type joinGamePayload struct {
	PlayerID string `json:"playerId"`
}

// gameActionPayload wraps every in-game command the client sends.
type gameActionPayload struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type startGameData struct {
	Mode string `json:"mode"` // "auto" or "manual", auto when empty
}

type dealCardData struct {
	Phase int `json:"phase"`
}

type playCardData struct {
	CardID string `json:"cardId"`
}

type manageAIData struct {
	AIKey string `json:"aiKey"`
	Add   bool   `json:"add"`
}

type startRoundData struct {
	NewDealerSelection bool `json:"newDealerSelection"`
}

type errorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type createRoomRequest struct {
	PlayerName string   `json:"playerName"`
	Avatar     string   `json:"avatar"`
	AIPlayers  []string `json:"aiPlayers"`
}

type createRoomResponse struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"roomCode,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type joinRoomRequest struct {
	PlayerName string `json:"playerName"`
	Avatar     string `json:"avatar"`
	RoomCode   string `json:"roomCode"`
}

type joinRoomResponse struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Error    string `json:"error,omitempty"`
}
