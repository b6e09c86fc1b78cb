package resource

import (
	"mime"
	"net/http"

	"go.hackfix.me/hypersphere/parse"
)

// ProcessEntity parses the request body and attaches the result to the
// request. Requests without a body are skipped.
//
// It responds with 415 Unsupported Media Type if the Content-Type header is
// missing or malformed, or if the resource has no parser for it, and with 413
// Content Too Large if the body exceeds the resource limit. Parser failures
// are returned as errors and don't resolve the pipeline.
func ProcessEntity(res Resource, req *Request) (*Response, error) {
	if len(req.Body) == 0 {
		return nil, nil
	}

	if _, ok := req.headerValue("Content-Type"); !ok {
		return NewResponse(http.StatusUnsupportedMediaType), nil
	}

	if int64(len(req.Body)) > res.MaxBodyLength() {
		return NewResponse(http.StatusRequestEntityTooLarge), nil
	}

	mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil {
		return NewResponse(http.StatusUnsupportedMediaType), nil
	}

	parsers := res.Parsers()
	if parsers == nil {
		return NewResponse(http.StatusUnsupportedMediaType), nil
	}
	parser, ok := parsers.Lookup(mediaType)
	if !ok {
		return NewResponse(http.StatusUnsupportedMediaType), nil
	}

	charset := params["charset"]
	if charset == "" {
		charset = parse.DefaultCharset
	}

	entity, err := parser.Parse(req.Body, charset, params)
	if err != nil {
		//nolint:wrapcheck // The parser error is already descriptive.
		return nil, err
	}

	if err = req.SetEntity(entity); err != nil {
		return nil, err
	}

	return nil, nil
}
