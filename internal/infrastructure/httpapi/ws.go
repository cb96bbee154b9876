package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/bnema/wayfinder/internal/logging"
	"github.com/bnema/wayfinder/internal/ui/urlbar"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10

	// UpdateSnapshot is the event name of the first message on a socket.
	UpdateSnapshot = "snapshot"
)

// The API only listens on loopback by default, so any origin may connect.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type wsError struct {
	Event string `json:"event"`
	Error string `json:"error"`
}

// urlbarSocket streams store updates to the client and dispatches the
// events it sends. The first message is the current state.
func (s *Server) urlbarSocket(c *gin.Context) {
	ctx := c.Request.Context()
	log := logging.FromContext(ctx)

	// Subscribe first so no change between the snapshot and the stream is lost.
	updates, cancel := s.deps.Store.Subscribe()
	defer cancel()

	state, err := s.deps.Store.Snapshot(ctx)
	if err != nil {
		loopError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()

	log.Debug().Msg("url bar socket connected")
	defer log.Debug().Msg("url bar socket disconnected")

	// gorilla allows one concurrent writer; the reader hands errors to it.
	replies := make(chan wsError, 4)
	readDone := make(chan struct{})
	go s.readEvents(conn, replies, readDone)

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	if err := writeJSON(conn, urlbar.Update{Event: UpdateSnapshot, State: state}); err != nil {
		return
	}
	for {
		select {
		case <-readDone:
			return
		case <-s.ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(wsWriteWait))
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if err := writeJSON(conn, u); err != nil {
				return
			}
		case e := <-replies:
			if err := writeJSON(conn, e); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) readEvents(conn *websocket.Conn, replies chan<- wsError, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxEventBytes)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		ev, err := urlbar.ParseEvent(data)
		if err != nil {
			select {
			case replies <- wsError{Event: "error", Error: err.Error()}:
			default:
			}
			continue
		}
		if !s.deps.Store.Dispatch(ev) {
			return
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(v)
}
