package http1

import (
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/ebb-web/ebb/config"
	"github.com/ebb-web/ebb/http"
	"github.com/ebb-web/ebb/http/method"
	"github.com/ebb-web/ebb/http/proto"
	"github.com/ebb-web/ebb/http/status"
	"github.com/ebb-web/ebb/internal/buffer"
	"github.com/ebb-web/ebb/internal/render"
	"github.com/ebb-web/ebb/kv"
	"github.com/stretchr/testify/require"
)

// scriptedConn serves a fixed byte sequence in reads of at most chunk
// bytes each, then reports EOF. Writes are discarded.
type scriptedConn struct {
	data  []byte
	chunk int
}

func (s *scriptedConn) Read(p []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}

	n := len(p)
	if s.chunk > 0 && s.chunk < n {
		n = s.chunk
	}
	if n > len(s.data) {
		n = len(s.data)
	}

	copy(p, s.data[:n])
	s.data = s.data[n:]

	return n, nil
}

func (s *scriptedConn) Write(p []byte) (int, error)  { return len(p), nil }
func (s *scriptedConn) Close() error                 { return nil }
func (s *scriptedConn) LocalAddr() net.Addr          { return &net.TCPAddr{} }
func (s *scriptedConn) RemoteAddr() net.Addr         { return &net.TCPAddr{} }
func (s *scriptedConn) SetDeadline(time.Time) error  { return nil }
func (s *scriptedConn) SetReadDeadline(time.Time) error {
	return nil
}
func (s *scriptedConn) SetWriteDeadline(time.Time) error {
	return nil
}

type suit struct {
	reader  *Reader
	request *http.Request
}

func newSuit(cfg config.Config) suit {
	cfg = config.Fill(cfg)
	buff := buffer.New(cfg.NET.RequestSizeLimit)
	headers := kv.New()

	return suit{
		reader:  NewReader(cfg, buff, headers),
		request: http.NewRequest(render.New(64), buff, headers),
	}
}

func (s suit) read(t *testing.T, wire string, chunk int) *http.Request {
	t.Helper()
	conn := &scriptedConn{data: []byte(wire), chunk: chunk}
	s.request.Reset(conn)
	require.NoError(t, s.reader.Read(conn, s.request))
	return s.request
}

func (s suit) readErr(wire string, chunk int) error {
	conn := &scriptedConn{data: []byte(wire), chunk: chunk}
	s.request.Reset(conn)
	return s.reader.Read(conn, s.request)
}

func TestReader(t *testing.T) {
	const simple = "GET /hello HTTP/1.1\r\nHost: x\r\n\r\n"

	t.Run("frames a bodyless request", func(t *testing.T) {
		req := newSuit(config.Config{}).read(t, simple, 0)
		require.Equal(t, method.GET, req.Method)
		require.Equal(t, "/hello", req.Path)
		require.Equal(t, proto.HTTP11, req.Protocol)
		require.Equal(t, "x", req.Host())
		require.Equal(t, simple, string(req.HeadBytes()))
		require.Equal(t, "http://x/hello", req.URI())
	})

	t.Run("one byte at a time frames identically", func(t *testing.T) {
		req := newSuit(config.Config{}).read(t, simple, 1)
		require.Equal(t, method.GET, req.Method)
		require.Equal(t, "/hello", req.Path)
		require.Equal(t, "x", req.Host())
		require.Equal(t, simple, string(req.HeadBytes()))
	})

	t.Run("body prefix is reused, not re-read", func(t *testing.T) {
		// head and body arrive within a single read
		req := newSuit(config.Config{}).read(t,
			"POST /json HTTP/1.1\r\nHost: x\r\nContent-Length: 4\r\n\r\nabcd", 0)
		body, err := req.Body()
		require.NoError(t, err)
		require.Equal(t, "abcd", string(body))

		cached, err := req.Body()
		require.NoError(t, err)
		require.Equal(t, "abcd", string(cached))
	})

	t.Run("body split across many reads", func(t *testing.T) {
		req := newSuit(config.Config{}).read(t,
			"POST /upload HTTP/1.1\r\nContent-Length: 11\r\n\r\nhello world", 3)
		body, err := req.Body()
		require.NoError(t, err)
		require.Equal(t, "hello world", string(body))
	})

	t.Run("eager body is fetched during Read", func(t *testing.T) {
		s := newSuit(config.Config{Body: config.Body{Eager: true}})
		conn := &scriptedConn{data: []byte("POST / HTTP/1.1\r\nContent-Length: 3\r\n\r\nxyz")}
		s.request.Reset(conn)
		require.NoError(t, s.reader.Read(conn, s.request))
		require.Empty(t, conn.data)

		body, err := s.request.Body()
		require.NoError(t, err)
		require.Equal(t, "xyz", string(body))
	})

	t.Run("no content-length means no body", func(t *testing.T) {
		req := newSuit(config.Config{}).read(t, simple, 0)
		_, err := req.Body()
		require.ErrorIs(t, err, http.ErrNoContentLength)
	})

	t.Run("malformed content-length degrades to empty body", func(t *testing.T) {
		req := newSuit(config.Config{}).read(t,
			"POST / HTTP/1.1\r\nContent-Length: banana\r\n\r\n", 0)
		body, err := req.Body()
		require.NoError(t, err)
		require.Empty(t, body)
	})

	t.Run("declared length over the limit", func(t *testing.T) {
		s := newSuit(config.Config{NET: config.NET{RequestSizeLimit: 128}})
		err := s.readErr("POST / HTTP/1.1\r\nContent-Length: 4096\r\n\r\n", 0)
		require.ErrorIs(t, err, status.ErrBodyTooLarge)
	})

	t.Run("head over the limit", func(t *testing.T) {
		s := newSuit(config.Config{NET: config.NET{RequestSizeLimit: 64}})
		err := s.readErr("GET /"+strings.Repeat("a", 128)+" HTTP/1.1\r\n\r\n", 0)
		require.ErrorIs(t, err, status.ErrHeadTooLarge)
	})

	t.Run("peer closes before a complete head", func(t *testing.T) {
		s := newSuit(config.Config{})
		err := s.readErr("GET /hello HTTP/1.1\r\nHo", 0)
		require.ErrorIs(t, err, http.ErrConnClosed)
	})

	t.Run("peer closes mid-body", func(t *testing.T) {
		req := newSuit(config.Config{}).read(t,
			"POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\nabc", 0)
		_, err := req.Body()
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("malformed head", func(t *testing.T) {
		s := newSuit(config.Config{})
		require.ErrorIs(t, s.readErr("GET / HTTP/1.1\nbare-lf\n\n", 0), status.ErrMalformedHead)
		require.ErrorIs(t, s.readErr("BREW / HTTP/1.1\r\n\r\n", 0), status.ErrMethodNotImplemented)
	})

	t.Run("arena is recycled between connections", func(t *testing.T) {
		s := newSuit(config.Config{})
		for i := 0; i < 50; i++ {
			req := s.read(t, "POST /loop HTTP/1.1\r\nContent-Length: 5\r\n\r\n12345", 2)
			body, err := req.Body()
			require.NoError(t, err)
			require.Equal(t, "12345", string(body))
		}
	})
}
