package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/talentbase/resumeflow/internal/notify"
)

// StatusWSHandler bridges the per-user notification channel to a websocket.
// Forward-only: the client listens, the workers publish.
type StatusWSHandler struct {
	redis    *redis.Client
	upgrader websocket.Upgrader
}

func NewStatusWSHandler(rdb *redis.Client) *StatusWSHandler {
	return &StatusWSHandler{
		redis: rdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (h *StatusWSHandler) ResumeEvents(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.redis.Subscribe(ctx, notify.UserChannel(userID))
	defer pubsub.Close()

	// reader drains client frames so pings keep the connection alive;
	// anything the client sends is ignored.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		for {
			if _, _, rerr := conn.ReadMessage(); rerr != nil {
				return
			}
		}
	}()

	// the hijacked request context outlives the client; unblock
	// ReceiveMessage the moment the reader sees the disconnect.
	go func() {
		<-readDone
		cancel()
	}()

	for {
		m, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			return
		}
		// forward as-is (payload expected JSON string)
		if werr := wc.writeText([]byte(m.Payload)); werr != nil {
			return
		}
	}
}
