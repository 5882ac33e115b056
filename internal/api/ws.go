package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/seamshq/go-seams/internal/rt"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// serveWs upgrades the connection and subscribes the caller to live
// message events for the channels and dms they belong to.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	uid, err := s.app.Authorize(requestToken(r, ""))
	if err != nil {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf("upgrade: %v", err)
		return
	}

	client := rt.NewClient(uid, conn, s.hub, s.log)
	s.hub.Register(client)

	go client.Write()
	go client.Read()
}
