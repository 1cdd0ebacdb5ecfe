// Package server exposes games to players over websockets and a small JSON
// HTTP API, and serves the gRPC health endpoint.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/starsettlers/settlers-server-go/internal/config"
	"github.com/starsettlers/settlers-server-go/internal/game"
)

const (
	reasonRateLimited = "Too many actions, slow down"
	sendBuffer        = 256
)

// Client is one websocket connection bound to a seat.
type Client struct {
	conn    *websocket.Conn
	send    chan []byte
	gameID  string
	player  int
	limiter *rate.Limiter
}

// Server routes websocket traffic to the game manager and delivers
// resolutions back to the right connections.
type Server struct {
	manager  *game.Manager
	cfg      config.WebSocketConfig
	logger   *zap.Logger
	schema   *jsonschema.Schema
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]map[*Client]bool
}

// NewServer creates a server and registers it as a listener on manager.
func NewServer(manager *game.Manager, cfg config.WebSocketConfig, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	schema, err := compileEnvelopeSchema()
	if err != nil {
		return nil, err
	}
	s := &Server{
		manager: manager,
		cfg:     cfg,
		logger:  logger,
		schema:  schema,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]map[*Client]bool),
	}
	manager.AddListener(s)
	return s, nil
}

// Handler returns the HTTP routes: the websocket endpoint at cfg.Path and
// the game API under /games.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	path := s.cfg.Path
	if path == "" {
		path = "/ws"
	}
	mux.HandleFunc(path, s.serveWS)
	mux.HandleFunc("POST /games", s.createGame)
	mux.HandleFunc("GET /games", s.listGames)
	mux.HandleFunc("GET /games/{id}", s.getGame)
	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	player, err := strconv.Atoi(r.URL.Query().Get("player"))
	if err != nil {
		http.Error(w, "player must be a seat index", http.StatusBadRequest)
		return
	}
	g, err := s.manager.Snapshot(gameID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if !g.ValidPlayer(player) {
		http.Error(w, "player is not seated in this game", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &Client{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		gameID:  gameID,
		player:  player,
		limiter: rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateBurst),
	}
	s.register(c)

	go s.writePump(c)
	go s.readPump(c)
}

func (s *Server) register(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clients[c.gameID] == nil {
		s.clients[c.gameID] = make(map[*Client]bool)
	}
	s.clients[c.gameID][c] = true
	s.logger.Info("client connected",
		zap.String("game_id", c.gameID),
		zap.Int("player", c.player),
	)
}

func (s *Server) unregister(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropLocked(c)
}

// dropLocked removes c and closes its send channel. Callers hold s.mu.
func (s *Server) dropLocked(c *Client) {
	clients := s.clients[c.gameID]
	if !clients[c] {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(s.clients, c.gameID)
	}
	close(c.send)
	s.logger.Info("client disconnected",
		zap.String("game_id", c.gameID),
		zap.Int("player", c.player),
	)
}

func (s *Server) readPump(c *Client) {
	defer func() {
		s.unregister(c)
		c.conn.Close()
	}()

	if s.cfg.MaxMessageSize > 0 {
		c.conn.SetReadLimit(s.cfg.MaxMessageSize)
	}
	for {
		if s.cfg.ReadTimeout > 0 {
			_ = c.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		if !c.limiter.Allow() {
			s.reply(c, outbound{Event: EventError, Content: reasonRateLimited})
			continue
		}
		rec, err := decodeEnvelope(s.schema, raw)
		if err != nil {
			s.reply(c, outbound{Event: EventError, Content: err.Error()})
			continue
		}
		// a connection may only act for its own seat
		rec.Player = c.player

		if _, err := s.manager.Submit(c.gameID, rec); err != nil {
			s.reply(c, outbound{Event: EventError, Content: err.Error()})
			if errors.Is(err, game.ErrGameNotFound) || errors.Is(err, game.ErrManagerClosed) {
				return
			}
		}
	}
}

func (s *Server) writePump(c *Client) {
	defer c.conn.Close()

	for message := range c.send {
		if s.cfg.WriteTimeout > 0 {
			_ = c.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

func (s *Server) reply(c *Client, msg outbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("failed to encode message", zap.Error(err))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendLocked(c, data)
}

// sendLocked queues data for c, dropping the client if it cannot keep up.
func (s *Server) sendLocked(c *Client, data []byte) {
	if !s.clients[c.gameID][c] {
		return
	}
	select {
	case c.send <- data:
	default:
		s.logger.Warn("dropping slow client",
			zap.String("game_id", c.gameID),
			zap.Int("player", c.player),
		)
		s.dropLocked(c)
	}
}

// Deliver routes a resolution to the acting player or to everyone in the
// game.
func (s *Server) Deliver(gameID string, res game.Resolution) {
	data, err := json.Marshal(outbound{Event: res.Event, Content: res.Content})
	if err != nil {
		s.logger.Error("failed to encode resolution",
			zap.String("game_id", gameID),
			zap.Error(err),
		)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients[gameID] {
		if res.To == game.ToOne && c.player != res.Player {
			continue
		}
		s.sendLocked(c, data)
	}
}

// Connections returns how many clients are attached to gameID.
func (s *Server) Connections(gameID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.clients[gameID])
}
