package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const streamWriteTimeout = 5 * time.Second

// handleStream pushes a full SessionState over a websocket on connect and
// after every committed transition. Messages from the client are ignored.
func handleStream(logger *slog.Logger, store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := sessionFrom(r).ID

		ch := broker.Subscribe(id)
		defer broker.Unsubscribe(id, ch)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx := conn.CloseRead(r.Context())

		if err := pushState(ctx, conn, store, id); err != nil {
			logger.Debug("websocket write failed", "session_id", id, "error", err)
			return
		}
		for {
			select {
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "")
				return
			case <-ch:
				if err := pushState(ctx, conn, store, id); err != nil {
					logger.Debug("websocket write failed", "session_id", id, "error", err)
					return
				}
			}
		}
	}
}

func pushState(ctx context.Context, conn *websocket.Conn, store Store, id string) error {
	rec, err := store.GetSession(ctx, id)
	if err != nil {
		return err
	}
	st, err := stateFromSnapshot(id, rec.Snapshot)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, st)
}
