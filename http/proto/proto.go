package proto

import "github.com/indigo-web/utils/uf"

type Proto uint8

const (
	Unknown Proto = iota
	HTTP10
	HTTP11
)

// String returns the protocol token WITH A TRAILING SPACE, so a status
// line can be rendered without an extra append.
func (p Proto) String() string {
	lut := [...]string{HTTP10: "HTTP/1.0 ", HTTP11: "HTTP/1.1 "}
	if int(p) >= len(lut) {
		return ""
	}

	return lut[p]
}

const (
	protoTokenLength   = len("HTTP/x.x")
	majorVersionOffset = len("HTTP/x") - 1
	minorVersionOffset = len("HTTP/x.x") - 1
	httpScheme         = "HTTP/"
)

// FromBytes parses a protocol token of the HTTP/x.x shape. Unknown is
// returned for everything which isn't shaped that way. Of all the valid
// tokens only HTTP/1.0 maps to itself; any other version folds to
// HTTP/1.1, as the engine speaks nothing newer anyway.
func FromBytes(raw []byte) Proto {
	if len(raw) != protoTokenLength ||
		uf.B2S(raw[:majorVersionOffset]) != httpScheme ||
		raw[majorVersionOffset+1] != '.' {
		return Unknown
	}

	return Parse(raw[majorVersionOffset]-'0', raw[minorVersionOffset]-'0')
}

func Parse(major, minor uint8) Proto {
	if major > 9 || minor > 9 {
		return Unknown
	}

	if major == 1 && minor == 0 {
		return HTTP10
	}

	return HTTP11
}
