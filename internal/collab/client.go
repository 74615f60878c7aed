package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second

	// element.create carries a full element, path data included, so the
	// read limit sits well above the other operation payloads.
	maxMsgSize = 512 * 1024
)

// Client is one websocket participant in a project room. The hub talks
// to it only through Send; the pumps own the connection.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	UserID      string
	DisplayName string
	ProjectID   string
	ClientID    string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, displayName, projectID, clientID string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, 256),
		UserID:      userID,
		DisplayName: displayName,
		ProjectID:   projectID,
		ClientID:    clientID,
	}
}

// ReadPump decodes inbound frames and hands them to the hub. It runs on
// the connection's handler goroutine and unregisters the client when
// the connection drops.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "user", c.UserID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "user", c.UserID)
			continue
		}

		// Sender identity comes from the connection, never from the frame.
		msg.UserID = c.UserID
		msg.ClientID = c.ClientID
		msg.ProjectID = c.ProjectID

		c.hub.handleMessage(c, &msg)
	}
}

// WritePump drains the send queue onto the wire and keeps the
// connection alive with pings. It exits with ctx, which the server ties
// to the connection's lifetime.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "user", c.UserID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Send queues msg without blocking the hub. A full queue means the
// client stopped draining: presence frames are dropped since the next
// one supersedes them, but losing a document-bearing message would fork
// the client's copy of the document, so those close the connection and
// the client reconnects into a fresh doc.sync.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		if isPresenceType(msg.Type) {
			return
		}
		slog.Warn("client not draining, disconnecting", "user", c.UserID, "type", msg.Type)
		c.conn.Close(websocket.StatusTryAgainLater, "resync required")
	}
}

func isPresenceType(t string) bool {
	switch t {
	case TypePresenceUpdate, TypePresenceState, TypePresenceJoin, TypePresenceLeave:
		return true
	}
	return false
}
