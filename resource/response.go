package resource

import "net/http"

// Response is the outcome of evaluating a request. Checks construct a new
// Response when they resolve the pipeline, and never modify it afterwards.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewResponse returns a response with the given status code and no body.
func NewResponse(statusCode int) *Response {
	return &Response{
		StatusCode: statusCode,
		Header:     http.Header{},
	}
}

// Status returns the status text for the response code, e.g. "Not Found".
func (r *Response) Status() string {
	return http.StatusText(r.StatusCode)
}
