package status

// HTTPError is an error with an HTTP status code attached. Every failure
// the engine can classify as a protocol-level one is represented by it,
// so callers can match with errors.Is and render a meaningful response.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadRequest              = NewError(BadRequest, "bad request")
	ErrMalformedHead           = NewError(BadRequest, "malformed request head")
	ErrMethodNotImplemented    = NewError(NotImplemented, "request method is not supported")
	ErrNotFound                = NewError(NotFound, "not found")
	ErrBodyTooLarge            = NewError(RequestEntityTooLarge, "request body is too large")
	ErrHeadTooLarge            = NewError(RequestHeaderFieldsTooLarge, "request head exceeds the size limit")
	ErrTooManyHeaders          = NewError(RequestHeaderFieldsTooLarge, "too many headers")
	ErrURITooLong              = NewError(RequestURITooLong, "request URI too long")
	ErrHTTPVersionNotSupported = NewError(HTTPVersionNotSupported, "HTTP version not supported")
	ErrInternalServerError     = NewError(InternalServerError, "internal server error")
)
