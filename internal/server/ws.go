package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"CreeperAttack/internal/game"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveStream pushes every notice of one arena plus periodic status
// snapshots. Inbound messages are read only to notice the close.
func (s *Server) serveStream(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	arena := query.Get("arena")
	if arena == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "arena query parameter required"})
		return
	}
	codec, err := CodecFor(query.Get("codec"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf("upgrade: %v", err)
		return
	}
	defer conn.Close()

	notices, unsubscribe := s.broadcaster.Subscribe(arena)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stop := context.AfterFunc(s.closing, cancel)
	defer stop()

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	sendTick := time.NewTicker(time.Duration(1000.0/game.UpdateRateHz) * time.Millisecond)
	defer sendTick.Stop()

	if !s.pushStatus(ctx, conn, codec, arena) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notices:
			if !ok {
				return
			}
			if err := s.writeFrame(conn, codec, s.ids.noticeFrame(n)); err != nil {
				return
			}
		case <-sendTick.C:
			if !s.pushStatus(ctx, conn, codec, arena) {
				return
			}
		}
	}
}

// pushStatus writes a status frame. Arenas nobody has touched yet are
// skipped; false means the stream should end.
func (s *Server) pushStatus(ctx context.Context, conn *websocket.Conn, codec Codec, arena string) bool {
	st, err := s.status(ctx, arena)
	if errors.Is(err, game.ErrUnknownArena) {
		return true
	}
	if err != nil {
		return false
	}
	return s.writeFrame(conn, codec, s.ids.statusFrame(st)) == nil
}

func (s *Server) writeFrame(conn *websocket.Conn, codec Codec, f Frame) error {
	data, err := codec.Encode(f)
	if err != nil {
		s.log.Printf("stream %s: encode %s frame: %v", f.Arena, f.Kind, err)
		return nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(codec.MessageType(), data)
}
