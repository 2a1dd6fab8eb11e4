// Package ebb is a minimal synchronous HTTP/1.1 server primitive. An
// endpoint accepts one connection at a time, parses the request into a
// structured object backed by a single reusable arena, and lets the
// caller write the response straight back onto the same socket. There
// is no keep-alive, no TLS and no concurrency inside: a caller wanting
// parallelism runs one endpoint per worker.
package ebb

import (
	"errors"
	"iter"
	"net"

	"github.com/ebb-web/ebb/config"
	"github.com/ebb-web/ebb/http"
	"github.com/ebb-web/ebb/internal/buffer"
	"github.com/ebb-web/ebb/internal/protocol/http1"
	"github.com/ebb-web/ebb/internal/render"
	"github.com/ebb-web/ebb/kv"
)

// Re-exports, so simple programs get away with importing this package only.
type (
	Request  = http.Request
	Response = http.Response
)

// NewResponse returns a fresh response builder with the code set to 200 OK.
func NewResponse() *Response {
	return http.NewResponse()
}

const respBuffSize = 1024

// Server is a listening endpoint. It owns the bound listener, the byte
// arena sized to the request size limit, and the single recycled
// request object, which together bound the endpoint's memory regardless
// of connection rate. All methods must be called from one goroutine.
type Server struct {
	cfg      config.Config
	listener net.Listener
	buff     *buffer.Buffer
	reader   *http1.Reader
	request  *http.Request
	inflight bool
}

// Bind binds addr ("host:port") and returns a ready endpoint with the
// default config.
func Bind(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := &Server{listener: listener}
	s.Tune(config.Default())

	return s, nil
}

// Tune replaces the config, filling omitted values with defaults. The
// arena is reallocated to the new request size limit. Must not be
// called while a request is in flight.
func (s *Server) Tune(cfg config.Config) *Server {
	cfg = config.Fill(cfg)
	headers := kv.New()

	s.cfg = cfg
	s.buff = buffer.New(cfg.NET.RequestSizeLimit)
	s.request = http.NewRequest(render.New(respBuffSize), s.buff, headers)
	s.reader = http1.NewReader(cfg, s.buff, headers)

	return s
}

// Addr returns the bound address, which is handy with a ":0" bind.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Recv blocks until the next connection yields a complete request.
// Callers driving Recv directly should Finalize each request once done
// with it; a request left unanswered is finalized on the next Recv
// anyway, which is what guarantees the 404 safety net for callers that
// simply loop. A returned error concerns only that one connection; the
// endpoint keeps accepting, so the caller may just continue.
func (s *Server) Recv() (*http.Request, error) {
	if s.inflight {
		s.inflight = false
		s.request.Finalize()
	}

	conn, err := s.listener.Accept()
	if err != nil {
		return nil, err
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok && !s.cfg.NET.DisableNoDelay {
		_ = tcpConn.SetNoDelay(true)
	}

	s.request.Reset(conn)

	if err = s.reader.Read(conn, s.request); err != nil {
		_ = conn.Close()
		return nil, err
	}

	s.inflight = true

	return s.request, nil
}

// Incoming iterates over accepted requests endlessly, yielding either a
// request or the per-connection error, exactly as Recv does. Each
// request is finalized as soon as the loop body returns, so an
// unanswered one turns into a 404 right away instead of waiting for
// the next accept. Iteration stops once the listener is closed.
func (s *Server) Incoming() iter.Seq2[*http.Request, error] {
	return func(yield func(*http.Request, error) bool) {
		for {
			request, err := s.Recv()
			if errors.Is(err, net.ErrClosed) {
				return
			}

			proceed := yield(request, err)

			if request != nil {
				s.inflight = false
				request.Finalize()
			}

			if !proceed {
				return
			}
		}
	}
}

// Close finalizes the in-flight request, if any, and closes the listener.
func (s *Server) Close() error {
	if s.inflight {
		s.inflight = false
		s.request.Finalize()
	}

	return s.listener.Close()
}
