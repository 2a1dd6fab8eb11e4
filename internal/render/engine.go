package render

import (
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/ebb-web/ebb/http/proto"
	"github.com/ebb-web/ebb/http/status"
	"github.com/ebb-web/ebb/internal/response"
	"github.com/indigo-web/utils/strcomp"
)

const unknownReason = "Unknown"

// Engine serializes responses into a single reusable write buffer, so a
// response costs one Write call on the socket and zero allocations once
// the buffer is warm.
type Engine struct {
	buff []byte
}

func New(initialBuffSize int) *Engine {
	return &Engine{
		buff: make([]byte, 0, initialBuffSize),
	}
}

// Write renders the status line, headers and body onto w. The protocol
// of the status line is the one the request arrived with. A
// "connection: close" and a "content-length" header are injected unless
// the caller supplied their own; everything else is echoed verbatim in
// the given order. An I/O error aborts the write and is returned as-is.
func (e *Engine) Write(w io.Writer, protocol proto.Proto, fields *response.Fields) error {
	buff := e.buff[:0]

	token := protocol.String()
	if token == "" {
		token = proto.HTTP11.String()
	}

	buff = append(buff, token...)
	buff = strconv.AppendUint(buff, uint64(fields.Code), 10)
	buff = append(buff, ' ')
	buff = append(buff, reason(fields)...)
	buff = append(buff, '\r', '\n')

	var hasConnection, hasContentLength bool

	for _, header := range fields.Headers {
		hasConnection = hasConnection || strcomp.EqualFold(header.Key, "connection")
		hasContentLength = hasContentLength || strcomp.EqualFold(header.Key, "content-length")
	}

	if !hasConnection {
		buff = append(buff, "connection: close\r\n"...)
	}

	if !hasContentLength {
		buff = append(buff, "content-length: "...)
		buff = strconv.AppendInt(buff, int64(len(fields.Body)), 10)
		buff = append(buff, '\r', '\n')
	}

	for _, header := range fields.Headers {
		buff = append(buff, header.Key...)
		buff = append(buff, ':', ' ')
		buff = append(buff, renderable(header.Value)...)
		buff = append(buff, '\r', '\n')
	}

	buff = append(buff, '\r', '\n')
	buff = append(buff, fields.Body...)
	e.buff = buff

	_, err := w.Write(buff)

	return err
}

func reason(fields *response.Fields) status.Status {
	if len(fields.Status) > 0 {
		return fields.Status
	}

	if text := status.Text(fields.Code); len(text) > 0 {
		return text
	}

	return unknownReason
}

// renderable substitutes the literal text "unknown" for header values
// which cannot be represented as text on the wire.
func renderable(value string) string {
	if !utf8.ValidString(value) {
		return "unknown"
	}

	return value
}
