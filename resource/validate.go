package resource

import (
	"net/http"
	"slices"
)

// CheckAvailable responds with 503 Service Unavailable if the resource is
// disabled.
func CheckAvailable(res Resource, _ *Request) (*Response, error) {
	if !res.Available() {
		return NewResponse(http.StatusServiceUnavailable), nil
	}
	return nil, nil
}

// MethodKnown responds with 501 Not Implemented if the request method isn't
// recognized by the resource.
func MethodKnown(res Resource, req *Request) (*Response, error) {
	if !slices.Contains(res.KnownMethods(), req.Method) {
		return NewResponse(http.StatusNotImplemented), nil
	}
	return nil, nil
}

// URILengthWithinLimit responds with 414 URI Too Long if the request path
// exceeds the resource limit.
func URILengthWithinLimit(res Resource, req *Request) (*Response, error) {
	if len(req.Path) > res.MaxURILength() {
		return NewResponse(http.StatusRequestURITooLong), nil
	}
	return nil, nil
}

// MethodAllowed responds with 405 Method Not Allowed if the request method
// isn't permitted on the resource. The response lists the allowed methods in
// the Allow header.
func MethodAllowed(res Resource, req *Request) (*Response, error) {
	allowed := res.AllowedMethods()
	if !slices.Contains(allowed, req.Method) {
		resp := NewResponse(http.StatusMethodNotAllowed)
		for _, m := range allowed {
			resp.Header.Add("Allow", m)
		}
		return resp, nil
	}
	return nil, nil
}

// RequestValid responds with 400 Bad Request if the resource rejects the shape
// of the request.
func RequestValid(res Resource, req *Request) (*Response, error) {
	if !res.ValidateRequest(req) {
		return NewResponse(http.StatusBadRequest), nil
	}
	return nil, nil
}

// Authenticate responds with 401 Unauthorized if the resource fails to
// authenticate the request.
func Authenticate(res Resource, req *Request) (*Response, error) {
	if !res.Authenticate(req) {
		return NewResponse(http.StatusUnauthorized), nil
	}
	return nil, nil
}

// Authorize responds with 403 Forbidden if the resource denies access to the
// request.
func Authorize(res Resource, req *Request) (*Response, error) {
	if !res.Authorize(req) {
		return NewResponse(http.StatusForbidden), nil
	}
	return nil, nil
}
