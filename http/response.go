package http

import (
	"github.com/ebb-web/ebb/http/status"
	"github.com/ebb-web/ebb/internal/response"
	"github.com/ebb-web/ebb/kv"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

// why 7? no theory behind the number, it just comfortably fits the
// couple of headers simple handlers tend to set.
const preallocRespHeaders = 7

// Response is a builder over the wire-level response fields. It is
// caller-owned: the endpoint never retains it, so one value may be
// built once and sent to many requests.
type Response struct {
	fields response.Fields
}

// NewResponse returns a builder with the code set to 200 OK.
func NewResponse() *Response {
	return &Response{
		fields: response.Fields{
			Code:    status.OK,
			Headers: make([]kv.Pair, 0, preallocRespHeaders),
		},
	}
}

// Code sets the response code.
func (r *Response) Code(code status.Code) *Response {
	r.fields.Code = code
	return r
}

// Status sets a custom reason phrase. Clients generally ignore it, so
// there is rarely a reason to call this.
func (r *Response) Status(s status.Status) *Response {
	r.fields.Status = s
	return r
}

// Header appends header pairs in the given order.
func (r *Response) Header(key string, values ...string) *Response {
	for i := range values {
		r.fields.Headers = append(r.fields.Headers, kv.Pair{
			Key:   key,
			Value: values[i],
		})
	}

	return r
}

// Bytes sets the response body to the passed slice WITHOUT copying:
// changing the slice afterwards changes the response.
func (r *Response) Bytes(body []byte) *Response {
	r.fields.Body = body
	return r
}

// String sets the response body to the passed string.
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Write implements io.Writer by appending to the body. It always
// returns n=len(b) and err=nil.
func (r *Response) Write(b []byte) (n int, err error) {
	r.fields.Body = append(r.fields.Body, b...)
	return len(b), nil
}

// TryJSON replaces the body with the JSON encoding of the model and
// sets the content type accordingly.
func (r *Response) TryJSON(model any) (*Response, error) {
	r.fields.Body = r.fields.Body[:0]
	stream := json.ConfigDefault.BorrowStream(r)
	stream.WriteVal(model)
	err := stream.Flush()
	json.ConfigDefault.ReturnStream(stream)
	if err != nil {
		return r, err
	}

	return r.Header("Content-Type", "application/json"), nil
}

// JSON does the same as TryJSON, except an encoding failure degrades
// the response to a plain error one.
func (r *Response) JSON(model any) *Response {
	resp, err := r.TryJSON(model)
	if err != nil {
		return r.Error(err)
	}

	return resp
}

// Error sets the response to the passed error. A nil error leaves the
// builder untouched. A status.HTTPError carries its own code, so only
// the code is taken from it; any other error becomes the body with the
// code set to 500, or to the first of the optional codes.
func (r *Response) Error(err error, code ...status.Code) *Response {
	if err == nil {
		return r
	}

	if httpErr, ok := err.(status.HTTPError); ok {
		return r.Code(httpErr.Code)
	}

	c := status.InternalServerError
	if len(code) > 0 {
		c = code[0]
	}

	return r.
		Code(c).
		String(err.Error())
}

// Clear resets the builder to its initial state, retaining the
// underlying storage.
func (r *Response) Clear() *Response {
	r.fields.Clear()
	return r
}

// Expose returns the raw fields for serialization.
func (r *Response) Expose() *response.Fields {
	return &r.fields
}
