package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/phanxgames/algoviz"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = pongWait / 2
	maxMessageSize = 1 << 20
	sendBuffer     = 256
)

// Client commands.
const (
	CmdLoad         = "load"
	CmdPlay         = "play"
	CmdPause        = "pause"
	CmdStepForward  = "step_forward"
	CmdStepBackward = "step_backward"
	CmdReset        = "reset"
	CmdSpeed        = "speed"
)

// Server pushes.
const (
	EventLoaded = "loaded"
	EventStep   = "step"
	EventState  = "state"
	EventError  = "error"
)

// Command is a client message on the playback websocket. Load commands
// carry a RunRequest; speed commands carry Speed.
type Command struct {
	Type  string  `json:"type"`
	Speed float64 `json:"speed,omitempty"`
	RunRequest
}

// Event is a server message on the playback websocket.
type Event struct {
	Type      string              `json:"type"`
	RunID     string              `json:"run_id,omitempty"`
	Algorithm algoviz.AlgorithmID `json:"algorithm,omitempty"`
	Kind      string              `json:"kind,omitempty"`
	Len       int                 `json:"len,omitempty"`
	Cursor    int                 `json:"cursor"`
	Step      *algoviz.Step       `json:"step,omitempty"`
	State     string              `json:"state,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// session is one playback connection. It owns a Player; every write to the
// socket happens on the writePump goroutine.
type session struct {
	id     string
	h      *Handler
	conn   *websocket.Conn
	player *algoviz.Player
	logger *zap.Logger

	send chan []byte
	done chan struct{}
	once sync.Once
}

// Playback upgrades to a websocket and serves one Player over it.
func (h *Handler) Playback(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return err
	}

	s := h.newSession(conn)
	s.logger.Info("playback connected", zap.String("remote", c.RealIP()))

	go s.writePump()
	go s.readPump()
	return nil
}

func (h *Handler) newSession(conn *websocket.Conn) *session {
	id := "sess_" + uuid.New().String()[:8]
	s := &session{
		id:   id,
		h:    h,
		conn: conn,
		player: algoviz.NewPlayer(algoviz.PlayerConfig{
			BaseInterval: h.config.GetBaseInterval(),
			Speed:        h.config.Playback.Speed,
			Clock:        h.clock,
		}),
		logger: h.logger.With(zap.String("session_id", id)),
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
	s.player.OnStep(func(cursor int, st algoviz.Step) {
		s.push(Event{Type: EventStep, Cursor: cursor, Step: &st})
	})
	s.player.OnState(func(state algoviz.PlaybackState) {
		s.push(Event{Type: EventState, Cursor: s.player.Cursor(), State: state.String()})
	})
	return s
}

// push queues ev for the writer. It blocks while the buffer is full and
// drops ev once the session has closed.
func (s *session) push(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("failed to marshal event", zap.String("type", ev.Type), zap.Error(err))
		return
	}
	select {
	case s.send <- data:
	case <-s.done:
	}
}

func (s *session) pushError(msg string) {
	s.push(Event{Type: EventError, Cursor: s.player.Cursor(), Error: msg})
}

// close stops playback and releases the writer. Safe to call twice.
func (s *session) close() {
	s.once.Do(func() {
		close(s.done)
		s.player.Reset()
		s.logger.Info("playback disconnected")
	})
}

// readPump reads commands until the client goes away.
func (s *session) readPump() {
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		s.handleMessage(message)
	}
}

// writePump is the only goroutine that writes to the connection.
func (s *session) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		s.close()
	}()

	for {
		select {
		case message := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Warn("websocket write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage dispatches one client command.
func (s *session) handleMessage(data []byte) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		s.pushError("invalid JSON message")
		return
	}
	s.logger.Debug("command", zap.String("type", cmd.Type))

	switch cmd.Type {
	case CmdLoad:
		s.load(cmd.RunRequest)
	case CmdPlay:
		s.player.Play()
	case CmdPause:
		s.player.Pause()
	case CmdStepForward:
		s.player.StepForward()
	case CmdStepBackward:
		s.player.StepBackward()
	case CmdReset:
		s.player.Reset()
	case CmdSpeed:
		if err := s.player.SetSpeed(cmd.Speed); err != nil {
			s.pushError(err.Error())
		}
	default:
		s.pushError("unknown command type: " + cmd.Type)
	}
}

// load runs the requested algorithm and hands its trace to the Player. The
// loaded event precedes the Player's own step and state events.
func (s *session) load(req RunRequest) {
	a, err := s.h.registry.Lookup(req.Algorithm)
	if err != nil {
		s.pushError(err.Error())
		return
	}
	in, err := req.Input(a.Kind(), s.h.limits())
	if err != nil {
		s.pushError(err.Error())
		return
	}

	resp := s.h.run(a, in)
	s.logger.Info("load",
		zap.String("run_id", resp.RunID),
		zap.String("algorithm", string(a.ID())),
		zap.Int("steps", resp.Trace.Len()))
	s.push(Event{
		Type:      EventLoaded,
		RunID:     resp.RunID,
		Algorithm: a.ID(),
		Kind:      a.Kind().String(),
		Len:       resp.Trace.Len(),
	})
	s.player.Load(resp.Trace)
}
