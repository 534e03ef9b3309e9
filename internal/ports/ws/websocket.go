package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"nhooyr.io/websocket"

	"tooza/internal/domain"
	"tooza/internal/logx"
	"tooza/internal/room"
)

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	rm, ok := s.manager.Get(code)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // allow any origin for dev
	})
	if err != nil {
		logx.Warn("websocket accept: %v", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()

	// First message must be a join-game carrying the player ID handed out
	// by create-room or join-room.
	_, data, err := conn.Read(ctx)
	if err != nil {
		return
	}
	var msg Envelope
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "join-game" {
		sendDirectError(ctx, conn, "ErrBadRequest", "first message must be join-game")
		return
	}
	var join joinGamePayload
	if err := json.Unmarshal(msg.Payload, &join); err != nil || join.PlayerID == "" {
		sendDirectError(ctx, conn, "ErrBadRequest", "invalid join-game payload")
		return
	}
	playerID := join.PlayerID

	state, err := rm.StateFor(ctx, playerID)
	if err != nil {
		sendDirectError(ctx, conn, domain.ErrKind(err), err.Error())
		return
	}

	sub, cancel := rm.Subscribe(playerID)
	defer cancel()

	// The connection has a single writer goroutine; the reader loop hands
	// it error frames over errs rather than writing itself.
	errs := make(chan []byte, 8)
	writeCtx, stopWriter := context.WithCancel(ctx)
	defer stopWriter()
	go func() {
		if err := conn.Write(writeCtx, websocket.MessageText, state); err != nil {
			return
		}
		for {
			select {
			case out, ok := <-sub:
				if !ok {
					// Room closed underneath us.
					conn.Close(websocket.StatusGoingAway, "room closed")
					return
				}
				if err := conn.Write(writeCtx, websocket.MessageText, out); err != nil {
					return
				}
			case frame := <-errs:
				if err := conn.Write(writeCtx, websocket.MessageText, frame); err != nil {
					return
				}
			case <-writeCtx.Done():
				return
			}
		}
	}()

	// Reader: commands flow to the room actor; rejections go back to this
	// client only.
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		var msg Envelope
		if err := json.Unmarshal(data, &msg); err != nil {
			queueError(errs, "ErrBadRequest", "invalid message")
			continue
		}

		switch msg.Type {
		case "game-action":
			if err := s.handleAction(ctx, rm, playerID, msg.Payload); err != nil {
				queueError(errs, domain.ErrKind(err), err.Error())
			}
		case "leave-room":
			if err := rm.Leave(ctx, playerID); err != nil {
				queueError(errs, domain.ErrKind(err), err.Error())
				continue
			}
			return
		default:
			queueError(errs, "ErrBadRequest", "unknown message type: "+msg.Type)
		}
	}

	// Disconnected without leave-room: keep the seat for a reconnect.
	logx.Info("player %s disconnected from room %s", playerID, code)
}

func (s *Server) handleAction(ctx context.Context, rm *room.Room, playerID string, payload json.RawMessage) error {
	var action gameActionPayload
	if err := json.Unmarshal(payload, &action); err != nil {
		return errors.New("invalid game-action payload")
	}

	switch action.Action {
	case "startGame":
		var data startGameData
		if len(action.Data) > 0 {
			if err := json.Unmarshal(action.Data, &data); err != nil {
				return errors.New("invalid startGame data")
			}
		}
		mode := domain.DealAuto
		if data.Mode == string(domain.DealManual) {
			mode = domain.DealManual
		}
		return rm.StartGame(ctx, playerID, mode)

	case "drawDealerCard":
		return rm.DrawDealerCard(ctx, playerID)

	case "confirmDealer":
		return rm.ConfirmDealer(ctx, playerID)

	case "dealCard":
		var data dealCardData
		if len(action.Data) > 0 {
			if err := json.Unmarshal(action.Data, &data); err != nil {
				return errors.New("invalid dealCard data")
			}
		}
		if data.Phase == 0 {
			data.Phase = 1
		}
		return rm.DealCard(ctx, playerID, data.Phase)

	case "playCard":
		var data playCardData
		if err := json.Unmarshal(action.Data, &data); err != nil || data.CardID == "" {
			return errors.New("invalid playCard data")
		}
		return rm.PlayCard(ctx, playerID, data.CardID)

	case "manageAI":
		var data manageAIData
		if err := json.Unmarshal(action.Data, &data); err != nil || data.AIKey == "" {
			return errors.New("invalid manageAI data")
		}
		return rm.ManageAI(ctx, playerID, data.AIKey, data.Add)

	case "startRound":
		var data startRoundData
		if len(action.Data) > 0 {
			if err := json.Unmarshal(action.Data, &data); err != nil {
				return errors.New("invalid startRound data")
			}
		}
		return rm.StartRound(ctx, playerID, data.NewDealerSelection)

	default:
		return errors.New("unknown action: " + action.Action)
	}
}

// sendDirectError writes an error before the writer goroutine exists.
func sendDirectError(ctx context.Context, conn *websocket.Conn, kind, message string) {
	if err := conn.Write(ctx, websocket.MessageText, errorFrame(kind, message)); err != nil {
		logx.Debug("write error frame: %v", err)
	}
}

func queueError(errs chan []byte, kind, message string) {
	select {
	case errs <- errorFrame(kind, message):
	default:
	}
}

func errorFrame(kind, message string) []byte {
	p, _ := json.Marshal(errorPayload{Kind: kind, Message: message})
	msg, _ := json.Marshal(Envelope{Type: "error", Payload: p})
	return msg
}
