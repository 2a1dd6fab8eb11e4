package response

import (
	"github.com/ebb-web/ebb/http/status"
	"github.com/ebb-web/ebb/kv"
)

// Fields is the raw content of a response, shared between the public
// builder and the wire serializer to keep them in separate packages.
type Fields struct {
	Code status.Code
	// Status overrides the canonical reason phrase when non-empty.
	Status  status.Status
	Headers []kv.Pair
	Body    []byte
}

func (f *Fields) Clear() {
	f.Code = status.OK
	f.Status = ""
	f.Headers = f.Headers[:0]
	f.Body = nil
}
