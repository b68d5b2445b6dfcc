package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	outboxSize        = 32
	keepaliveInterval = 30 * time.Second
)

// Client is one connected storefront browser. Events flow strictly
// hub → client; anything the browser sends is discarded.
type Client struct {
	hub  *Hub
	conn *ws.Conn
	send chan []byte
}

// NewClient creates a Client tied to the given hub and connection.
func NewClient(hub *Hub, conn *ws.Conn) *Client {
	return &Client{hub: hub, conn: conn, send: make(chan []byte, outboxSize)}
}

// Run registers the client with the hub and serves the connection until it
// closes, then unregisters.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Drain the read side so close frames and pongs are processed. Any
	// read error means the browser went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	c.serve(ctx)
}

// serve writes queued events to the connection and pings idle browsers so
// dead connections are noticed between broadcasts.
func (c *Client) serve(ctx context.Context) {
	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				// Hub unregistered us.
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, data); err != nil {
				return
			}
		case <-keepalive.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		}
	}
}
