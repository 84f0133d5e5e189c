package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// ProgressHandler upgrades the connection and parks it in a room.
// The socket is read-only for the server side: clients only listen for
// chunk events, uploads themselves go over plain HTTP.
func ProgressHandler(hub *Hub) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			http.Error(w, "ws upgrade failed", http.StatusBadRequest)
			return
		}

		roomID := r.URL.Query().Get("roomID")
		if roomID == "" {
			roomID = "default"
		}

		// hello goes out before Register: once the conn is in the room
		// the hub may write to it, and gorilla forbids concurrent writes
		if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"status":"connected"}`)); err != nil {
			conn.Close()
			return
		}

		hub.Register(roomID, conn)
		defer hub.Unregister(roomID, conn)

		// drain until the client goes away; anything it sends is ignored
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
