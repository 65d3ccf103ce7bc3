// Package server owns the listening socket, the shared running flag, and the
// per-connection handler loop. One goroutine per accepted connection; the
// running flag is the only state shared between them.
package server

import (
	"errors"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/jmorgan81/calcwire/internal/observability"
	"github.com/jmorgan81/calcwire/internal/protocol/frame"
	"github.com/rs/zerolog/log"
)

const defaultReadBufferBytes = 4096

// Config carries the server's listen address and buffer sizing.
type Config struct {
	Listen          string
	ReadBufferBytes int
	MaxPayloadBytes uint32
}

// Stats is a point-in-time snapshot of connection counters.
type Stats struct {
	Connections    uint64 `json:"connections_total"`
	Active         int64  `json:"active_connections"`
	Requests       uint64 `json:"requests_total"`
	Responses      uint64 `json:"responses_total"`
	DecodeFailures uint64 `json:"decode_failures_total"`
}

type counters struct {
	connections    atomic.Uint64
	active         atomic.Int64
	requests       atomic.Uint64
	responses      atomic.Uint64
	decodeFailures atomic.Uint64
}

// Server accepts connections and spawns one handler goroutine per client.
type Server struct {
	cfg      Config
	limits   frame.Limits
	listener net.Listener
	running  atomic.Bool
	stats    counters
}

func New(cfg Config) *Server {
	if cfg.ReadBufferBytes <= 0 {
		cfg.ReadBufferBytes = defaultReadBufferBytes
	}
	limits := frame.DefaultLimits()
	if cfg.MaxPayloadBytes > 0 {
		limits.MaxPayloadBytes = cfg.MaxPayloadBytes
	}
	return &Server{cfg: cfg, limits: limits}
}

// Listen binds the listening socket. Bind failure is process-fatal and
// propagates to the caller.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Listen, err)
	}
	s.listener = ln
	s.running.Store(true)
	return nil
}

// Addr reports the bound address. Valid after Listen; lets tests bind ":0".
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until Stop. Each accepted connection gets a
// detached goroutine; its terminal outcome goes to the log sink only, never
// back to the accept loop.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("server: not listening")
	}
	log.Info().Str("addr", s.listener.Addr().String()).Msg("server listening")

	for s.running.Load() {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() {
				break
			}
			log.Warn().Err(err).Msg("accept failed")
			continue
		}
		go s.serveConn(conn)
	}

	log.Info().Msg("server stopped")
	return nil
}

// Run binds and serves.
func (s *Server) Run() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Stop clears the running flag and closes the listener so Serve wakes from
// Accept. Connection goroutines observe the flag between handler iterations;
// one blocked inside a socket read keeps blocking until that read returns.
func (s *Server) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	log.Info().Msg("shutdown signal sent")
}

// Snapshot returns the current connection counters for the admin surface.
func (s *Server) Snapshot() Stats {
	return Stats{
		Connections:    s.stats.connections.Load(),
		Active:         s.stats.active.Load(),
		Requests:       s.stats.requests.Load(),
		Responses:      s.stats.responses.Load(),
		DecodeFailures: s.stats.decodeFailures.Load(),
	}
}

func (s *Server) serveConn(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	logger := log.With().Str("remote", remote).Logger()
	logger.Info().Msg("client connected")

	s.stats.connections.Add(1)
	s.stats.active.Add(1)
	observability.RecordConnectionOpened()
	defer func() {
		_ = conn.Close()
		s.stats.active.Add(-1)
		observability.RecordConnectionClosed()
		logger.Info().Msg("client disconnected")
	}()

	h := newConnHandler(conn, s, logger)
	for s.running.Load() {
		if err := h.handle(); err != nil {
			if errors.Is(err, errPeerClosed) {
				return
			}
			logger.Warn().Err(err).Msg("connection error")
			return
		}
	}
}
