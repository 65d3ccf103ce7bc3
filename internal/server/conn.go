package server

import (
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/jmorgan81/calcwire/internal/dispatch"
	"github.com/jmorgan81/calcwire/internal/observability"
	"github.com/jmorgan81/calcwire/internal/protocol/envelope"
	"github.com/jmorgan81/calcwire/internal/protocol/frame"
	"github.com/rs/zerolog"
)

var errPeerClosed = errors.New("server: peer closed connection")

// connHandler owns one accepted socket. Nothing here is shared with other
// connections; the scratch and read buffers live for the socket's lifetime.
type connHandler struct {
	conn    net.Conn
	srv     *Server
	logger  zerolog.Logger
	buf     []byte
	scratch []byte
	primed  bool
}

func newConnHandler(conn net.Conn, srv *Server, logger zerolog.Logger) *connHandler {
	return &connHandler{
		conn:    conn,
		srv:     srv,
		logger:  logger,
		buf:     make([]byte, srv.cfg.ReadBufferBytes),
		scratch: make([]byte, 512),
	}
}

// handle runs one drain/read/decode/dispatch/respond cycle. A nil return
// means the loop should run again; errPeerClosed or an I/O error ends the
// connection. Undecodable bytes are dropped without a response and without
// closing the connection.
func (h *connHandler) handle() error {
	// No drain before the first read: nothing processed yet, and a request
	// racing the accept would be lost.
	if h.primed {
		h.drain()
	}
	h.primed = true

	n, err := h.conn.Read(h.buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errPeerClosed
		}
		return err
	}
	if n == 0 {
		return errPeerClosed
	}

	// One read may carry several back-to-back frames; answer each in order.
	data := h.buf[:n]
	for len(data) > 0 {
		f, consumed, err := frame.DecodeFrame(data, h.srv.limits)
		if err != nil {
			h.srv.stats.decodeFailures.Add(1)
			observability.RecordDecodeFailure()
			h.logger.Debug().Err(err).Int("bytes", len(data)).Msg("dropping undecodable bytes")
			return nil
		}
		data = data[consumed:]

		msg, err := envelope.DecodeClientMessage(f)
		if err != nil {
			h.srv.stats.decodeFailures.Add(1)
			observability.RecordDecodeFailure()
			h.logger.Debug().Err(err).Uint32("message_type", f.Header.MessageType).Msg("dropping invalid message")
			continue
		}

		h.srv.stats.requests.Add(1)
		observability.RecordRequest(kindLabel(msg.Kind))

		resp, ok := dispatch.Dispatch(msg)
		if !ok {
			continue
		}

		out, err := envelope.EncodeServerMessage(resp)
		if err != nil {
			h.logger.Error().Err(err).Msg("response encode failed")
			continue
		}
		if _, err := h.conn.Write(out); err != nil {
			return err
		}
		h.srv.stats.responses.Add(1)
		observability.RecordResponse(kindLabel(resp.Kind))
	}
	return nil
}

// drain discards bytes already buffered on the socket so a stale tail from a
// prior message never leaks into the next decode. Go socket fds are
// non-blocking at the OS level, so raw reads return EAGAIN the moment the
// buffer is empty; the loop never suspends.
func (h *connHandler) drain() {
	sc, ok := h.conn.(syscall.Conn)
	if !ok {
		return
	}
	rc, err := sc.SyscallConn()
	if err != nil {
		return
	}
	_ = rc.Read(func(fd uintptr) bool {
		for {
			n, err := syscall.Read(int(fd), h.scratch)
			if n <= 0 || err != nil {
				return true
			}
		}
	})
}

func kindLabel(k envelope.Kind) string {
	switch k {
	case envelope.KindAdd:
		return "add"
	case envelope.KindEcho:
		return "echo"
	default:
		return "unknown"
	}
}
