package http1

import (
	"errors"
	"io"
	"net"

	"github.com/ebb-web/ebb/config"
	"github.com/ebb-web/ebb/http"
	"github.com/ebb-web/ebb/http/status"
	"github.com/ebb-web/ebb/internal/buffer"
	"github.com/ebb-web/ebb/internal/tcp"
	"github.com/ebb-web/ebb/kv"
)

// Reader frames one request per accepted connection: it accumulates
// socket reads in the arena until the tokenizer reports a complete head,
// then splits the arena into head and body regions. It owns neither the
// arena nor the header storage; both belong to the endpoint and are
// recycled between connections.
type Reader struct {
	cfg     config.Config
	buff    *buffer.Buffer
	headers *kv.Storage
}

func NewReader(cfg config.Config, buff *buffer.Buffer, headers *kv.Storage) *Reader {
	return &Reader{
		cfg:     cfg,
		buff:    buff,
		headers: headers,
	}
}

// Read blocks until conn yields a complete request head, filling the
// passed request object. With eager body configured, the declared body
// is fetched as well. Failures leave the connection for the caller to
// dispose of.
func (r *Reader) Read(conn net.Conn, request *http.Request) error {
	r.buff.Clear()

	var (
		hd      Head
		headLen int
	)

	// AwaitingHead: keep appending reads to the arena until the
	// tokenizer is satisfied.
	for {
		tail := r.buff.Tail()
		if len(tail) == 0 {
			return status.ErrHeadTooLarge
		}

		n, err := tcp.Read(conn, tail)
		r.buff.Advance(n)

		if n > 0 {
			var done bool
			hd, headLen, done, err = ParseHead(r.buff.Preview(), r.headers)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return http.ErrConnClosed
			}

			return err
		}
	}

	// HeadComplete: detach the head region. Bytes read past it stay in
	// the arena as the beginning of the body.
	head := r.buff.Split(headLen)
	declared, present := contentLength(r.headers)

	if left := declared - r.buff.SegmentLength(); left > r.buff.Spare() {
		return status.ErrBodyTooLarge
	}

	request.Method = hd.Method
	request.Path = hd.Path
	request.Query = hd.Query
	request.Protocol = hd.Protocol
	request.SetHead(head)
	request.InitBody(declared, present)

	// AwaitingBody is entered on demand: either right away or lazily on
	// the first Body call.
	if r.cfg.Body.Eager && present {
		if _, err := request.Body(); err != nil {
			return err
		}
	}

	return nil
}
