package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection and blocks until it closes. initial, if
// set, is queued before anything else so the client starts from the current
// state.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID, userID string, initial []byte) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, UserID: userID, Send: make(chan []byte, 64)}
	if initial != nil {
		client.Send <- initial
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
