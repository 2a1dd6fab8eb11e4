package http1

import (
	"bytes"
	"strconv"

	"github.com/ebb-web/ebb/http/method"
	"github.com/ebb-web/ebb/http/proto"
	"github.com/ebb-web/ebb/http/status"
	"github.com/ebb-web/ebb/kv"
	"github.com/indigo-web/utils/uf"
)

// headerCountLimit bounds the tokenizer's working set. Not configurable.
const headerCountLimit = 64

// Head is the tokenized request head. All strings are views into the
// arena the raw bytes live in, so they stay valid exactly as long as
// the arena isn't cleared.
type Head struct {
	Method   method.Method
	Path     string
	Query    string
	Protocol proto.Proto
}

// ParseHead tokenizes a request line and header block. It re-scans the
// accumulated bytes from scratch on every call, which keeps it free of
// hidden state: feeding it a head byte by byte yields exactly the same
// result as feeding the whole head at once. done=false with a nil error
// means more bytes are needed. n is the head length, including the
// terminating blank line.
func ParseHead(data []byte, headers *kv.Storage) (hd Head, n int, done bool, err error) {
	headers.Clear()

	line, rest, found, err := cutLine(data)
	if err != nil {
		return hd, 0, false, err
	}
	if !found {
		return hd, 0, false, nil
	}

	hd, err = parseRequestLine(line)
	if err != nil {
		return hd, 0, false, err
	}

	for {
		line, rest, found, err = cutLine(rest)
		if err != nil {
			return hd, 0, false, err
		}
		if !found {
			return hd, 0, false, nil
		}

		if len(line) == 0 {
			return hd, len(data) - len(rest), true, nil
		}

		if headers.Len() == headerCountLimit {
			return hd, 0, false, status.ErrTooManyHeaders
		}

		key, value, err := parseHeaderLine(line)
		if err != nil {
			return hd, 0, false, err
		}

		headers.Add(key, value)
	}
}

// cutLine cuts the first CRLF-terminated line off data. A line feed
// without a preceding carriage return is malformed.
func cutLine(data []byte) (line, rest []byte, found bool, err error) {
	idx := bytes.IndexByte(data, '\n')
	if idx < 0 {
		return nil, data, false, nil
	}

	if idx == 0 || data[idx-1] != '\r' {
		return nil, nil, false, status.ErrMalformedHead
	}

	return data[:idx-1], data[idx+1:], true, nil
}

func parseRequestLine(line []byte) (hd Head, err error) {
	sp := bytes.IndexByte(line, ' ')
	if sp < 0 {
		return hd, status.ErrMalformedHead
	}

	hd.Method = method.Parse(uf.B2S(line[:sp]))
	if hd.Method == method.Unknown {
		return hd, status.ErrMethodNotImplemented
	}

	line = line[sp+1:]
	sp = bytes.IndexByte(line, ' ')
	if sp < 0 {
		return hd, status.ErrMalformedHead
	}

	target, protoToken := line[:sp], line[sp+1:]
	if len(target) == 0 {
		return hd, status.ErrBadRequest
	}

	hd.Protocol = proto.FromBytes(protoToken)
	if hd.Protocol == proto.Unknown {
		return hd, status.ErrMalformedHead
	}

	if q := bytes.IndexByte(target, '?'); q >= 0 {
		hd.Path = uf.B2S(target[:q])
		hd.Query = uf.B2S(target[q+1:])
	} else {
		hd.Path = uf.B2S(target)
	}

	return hd, nil
}

func parseHeaderLine(line []byte) (key, value string, err error) {
	colon := bytes.IndexByte(line, ':')
	if colon <= 0 {
		return "", "", status.ErrMalformedHead
	}

	// whitespace inside the key would make the header unfindable by
	// lookup, so a line like "Host : x" is rejected, not trimmed.
	if bytes.IndexAny(line[:colon], " \t") >= 0 {
		return "", "", status.ErrMalformedHead
	}

	return uf.B2S(line[:colon]), uf.B2S(bytes.Trim(line[colon+1:], " \t")), nil
}

// contentLength extracts the declared body length. The engine is
// lenient here: a present but non-numeric (or negative) value degrades
// to zero instead of failing the request.
func contentLength(headers *kv.Storage) (length int, present bool) {
	value, found := headers.Get("content-length")
	if !found {
		return 0, false
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, true
	}

	return n, true
}
