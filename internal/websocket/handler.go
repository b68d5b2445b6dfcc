package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
)

// HandleWebSocket returns the /ws endpoint: it upgrades the request and
// streams hub events to the browser until the connection drops.
func HandleWebSocket(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	// The demo storefront is served from arbitrary origins, so origin
	// checking stays off.
	opts := &ws.AcceptOptions{InsecureSkipVerify: true}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, opts)
		if err != nil {
			logger.Error("websocket accept", "remote", r.RemoteAddr, "error", err)
			return
		}
		logger.Debug("websocket connected", "remote", r.RemoteAddr)

		NewClient(hub, conn).Run(r.Context())
	}
}
