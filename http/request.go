package http

import (
	"net"

	"github.com/ebb-web/ebb/http/method"
	"github.com/ebb-web/ebb/http/proto"
	"github.com/ebb-web/ebb/http/status"
	"github.com/ebb-web/ebb/internal/buffer"
	"github.com/ebb-web/ebb/internal/render"
	"github.com/ebb-web/ebb/internal/response"
	"github.com/ebb-web/ebb/internal/tcp"
	"github.com/ebb-web/ebb/kv"
)

type Headers = *kv.Storage

// Request is a single parsed HTTP request together with the still-open
// connection its response goes to. The endpoint owns a single request
// object and recycles it: the object and every byte slice it exposes
// stay valid until the next connection is accepted.
type Request struct {
	// Method is an enum representing the request method.
	Method method.Method
	// Path is the path component of the request target, Query the raw
	// query string after '?', if any.
	Path  string
	Query string
	// Protocol the request arrived with. Responses are rendered with it.
	Protocol proto.Proto
	// Headers holds non-normalized header pairs in wire order; lookup
	// is case-insensitive and duplicates are preserved.
	Headers Headers
	// Remote holds the peer address.
	Remote net.Addr

	head       []byte
	body       []byte
	bodyLen    int
	hasBodyLen bool
	fetched    bool

	conn      net.Conn
	buff      *buffer.Buffer
	renderer  *render.Engine
	responded bool
	finalized bool
}

// NewRequest wires a reusable request object to the endpoint's arena,
// header storage and serializer.
func NewRequest(renderer *render.Engine, buff *buffer.Buffer, headers *kv.Storage) *Request {
	return &Request{
		Protocol: proto.HTTP11,
		Headers:  headers,
		buff:     buff,
		renderer: renderer,
	}
}

// Reset prepares the object for the next connection.
func (r *Request) Reset(conn net.Conn) {
	r.Method = method.Unknown
	r.Path = ""
	r.Query = ""
	r.Protocol = proto.HTTP11
	r.Remote = conn.RemoteAddr()
	r.head = nil
	r.body = nil
	r.bodyLen = 0
	r.hasBodyLen = false
	r.fetched = false
	r.conn = conn
	r.responded = false
	r.finalized = false
}

// SetHead attaches the raw head bytes. Called by the connection reader.
func (r *Request) SetHead(head []byte) {
	r.head = head
}

// InitBody records the declared body length. Called by the connection reader.
func (r *Request) InitBody(declared int, present bool) {
	r.bodyLen = declared
	r.hasBodyLen = present
}

// HeadBytes returns the raw request head, terminating blank line included.
func (r *Request) HeadBytes() []byte {
	return r.head
}

// Host returns the authority as declared by the Host header, or an
// empty string.
func (r *Request) Host() string {
	return r.Headers.Value("host")
}

// URI reassembles the effective request URI. The scheme is fixed to
// http, as the endpoint speaks nothing else. Without a Host header the
// authority part is omitted entirely, leaving just the origin form.
func (r *Request) URI() string {
	uri := r.Path
	if host := r.Host(); len(host) > 0 {
		uri = "http://" + host + r.Path
	}

	if len(r.Query) > 0 {
		uri += "?" + r.Query
	}

	return uri
}

// Body returns the request body, fetching whatever part of it is still
// on the socket. The bytes past the head which arrived together with it
// are reused as the beginning of the body, the remainder is read in one
// exact-length pass into the arena. Repeated calls return the cached
// value. Fails with ErrNoContentLength when no length was declared and
// with status.ErrBodyTooLarge when the declared remainder cannot fit
// the arena's spare capacity.
func (r *Request) Body() ([]byte, error) {
	if r.fetched {
		return r.body, nil
	}

	if !r.hasBodyLen {
		return nil, ErrNoContentLength
	}

	if left := r.bodyLen - r.buff.SegmentLength(); left > 0 {
		if left > r.buff.Spare() {
			return nil, status.ErrBodyTooLarge
		}

		tail := r.buff.Tail()[:left]
		if err := tcp.ReadFull(r.conn, tail); err != nil {
			return nil, err
		}

		r.buff.Advance(left)
	}

	r.body = r.buff.Preview()[:r.bodyLen]
	r.fetched = true

	return r.body, nil
}

// Respond serializes the response onto the connection. Exactly one
// response may be written per request: any subsequent attempt is inert
// and reports ErrDoubleRespond without touching the wire.
func (r *Request) Respond(resp *Response) error {
	if r.responded {
		return ErrDoubleRespond
	}

	r.responded = true

	return r.renderer.Write(r.conn, r.Protocol, resp.Expose())
}

var notFoundFallback = &response.Fields{
	Code: status.NotFound,
	Body: []byte("404 Not Found"),
}

// Finalize ends the request's lifecycle. If no response was written, a
// fixed 404 Not Found goes out first, so the peer never hangs on an
// answered-by-nobody connection; a failure of that write is swallowed,
// as the peer may be long gone. The connection is closed either way.
// Finalize is idempotent, and the endpoint invokes it implicitly before
// accepting the next connection.
func (r *Request) Finalize() {
	if r.finalized {
		return
	}

	r.finalized = true

	if !r.responded {
		r.responded = true
		_ = r.renderer.Write(r.conn, r.Protocol, notFoundFallback)
	}

	_ = r.conn.Close()
}
