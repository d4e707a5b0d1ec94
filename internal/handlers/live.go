// SPDX-License-Identifier: MIT
package handlers

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/thatcatcamp/themer/internal/designer"
	"github.com/thatcatcamp/themer/internal/middleware"
	"github.com/thatcatcamp/themer/internal/themes"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = 30 * time.Second

	// PreviewSelector scopes the live preview style
	PreviewSelector = ".sl-theme-preview"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// LiveMessage is pushed to preview clients after every change
type LiveMessage struct {
	Type  string            `json:"type"`
	CSS   string            `json:"css"`
	State designer.Snapshot `json:"state"`
}

type liveClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
	log  zerolog.Logger

	// mu orders state pushes by snapshot version
	mu      sync.Mutex
	sent    bool
	version uint64
}

// LiveHandler upgrades to a websocket and streams the preview CSS of the
// session. Messages from the client are read and dropped.
func (h *Handlers) LiveHandler(c *gin.Context) {
	session := middleware.GetSession(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &liveClient{
		conn: conn,
		send: make(chan []byte, 16),
		done: make(chan struct{}),
		log:  h.Log.With().Str("session", session.ID).Logger(),
	}

	store := session.Store
	unsubscribe := store.Subscribe(func(snap designer.Snapshot) {
		client.pushState(store, snap)
	})
	client.pushState(store, store.Snapshot())

	client.log.Debug().Msg("live preview connected")

	go client.writePump()
	go func() {
		client.readPump()
		unsubscribe()
		client.close()
		client.log.Debug().Msg("live preview disconnected")
	}()
}

// liveMessage renders snap, not the current state of the store
func liveMessage(catalog *themes.Catalog, snap designer.Snapshot) []byte {
	theme := themes.Compose(snap.Customization, catalog.GetBaseTheme(snap.BaseThemeID))
	msg, _ := json.Marshal(LiveMessage{
		Type:  "theme",
		CSS:   themes.GeneratePreviewCSS(PreviewSelector, theme),
		State: snap,
	})
	return msg
}

// pushState queues the message for snap unless a newer state was already
// queued.
func (lc *liveClient) pushState(store *designer.Store, snap designer.Snapshot) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.sent && snap.Version <= lc.version {
		return
	}
	lc.sent = true
	lc.version = snap.Version
	lc.push(liveMessage(store.Catalog(), snap))
}

// push queues a message. A client too slow to keep up only misses
// intermediate states; the latest one is always queued.
func (lc *liveClient) push(msg []byte) {
	for {
		select {
		case <-lc.done:
			return
		case lc.send <- msg:
			return
		default:
		}
		// Drop the oldest queued message to make room
		select {
		case <-lc.send:
		default:
		}
	}
}

func (lc *liveClient) close() {
	lc.once.Do(func() { close(lc.done) })
}

func (lc *liveClient) readPump() {
	lc.conn.SetReadLimit(4096)
	lc.conn.SetReadDeadline(time.Now().Add(livePongWait))
	lc.conn.SetPongHandler(func(string) error {
		return lc.conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		if _, _, err := lc.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				lc.log.Debug().Err(err).Msg("live preview read error")
			}
			return
		}
	}
}

func (lc *liveClient) writePump() {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		lc.conn.Close()
		lc.close()
	}()

	for {
		select {
		case <-lc.done:
			lc.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			lc.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-lc.send:
			lc.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := lc.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			lc.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := lc.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
