package resource

import (
	"net/http"
	"slices"
	"strings"

	"github.com/munnerz/goautoneg"
	"golang.org/x/text/language"
)

// AcceptMediaType responds with 406 Not Acceptable if the Accept header is
// present and its value is not one of the acceptable media types. Otherwise it
// records the best matching media type on the request.
//
// Rejection compares the header value as a whole. Quality values and wildcards
// are only considered when selecting the best match.
func AcceptMediaType(res Resource, req *Request) (*Response, error) {
	acceptable := res.AcceptableMediaTypes()
	accept, ok := req.headerValue("Accept")
	if ok && !slices.Contains(acceptable, accept) {
		return NewResponse(http.StatusNotAcceptable), nil
	}
	if !ok {
		accept = "*/*"
	}

	req.negotiated.MediaType = bestMediaType(acceptable, accept)

	return nil, nil
}

// AcceptLanguage responds with 406 Not Acceptable if the Accept-Language header
// is present and its value is not one of the acceptable languages.
func AcceptLanguage(res Resource, req *Request) (*Response, error) {
	acceptable := res.AcceptableLanguages()
	accept, ok := req.headerValue("Accept-Language")
	if ok && !slices.Contains(acceptable, accept) {
		return NewResponse(http.StatusNotAcceptable), nil
	}

	req.negotiated.Language = bestLanguage(acceptable, accept)

	return nil, nil
}

// AcceptCharset responds with 406 Not Acceptable if the Accept-Charset header
// is present and its value is not one of the acceptable charsets.
func AcceptCharset(res Resource, req *Request) (*Response, error) {
	acceptable := res.AcceptableCharsets()
	accept, ok := req.headerValue("Accept-Charset")
	if ok && !slices.Contains(acceptable, accept) {
		return NewResponse(http.StatusNotAcceptable), nil
	}

	req.negotiated.Charset = firstOr(acceptable, accept, ok)

	return nil, nil
}

// AcceptEncoding responds with 406 Not Acceptable if the Accept-Encoding header
// is present and its value is not one of the acceptable encodings.
func AcceptEncoding(res Resource, req *Request) (*Response, error) {
	acceptable := res.AcceptableEncodings()
	accept, ok := req.headerValue("Accept-Encoding")
	if ok && !slices.Contains(acceptable, accept) {
		return NewResponse(http.StatusNotAcceptable), nil
	}

	req.negotiated.Encoding = firstOr(acceptable, accept, ok)

	return nil, nil
}

// firstOr returns the requested value if one was given, or else the first
// acceptable value.
func firstOr(acceptable []string, requested string, ok bool) string {
	if ok {
		return requested
	}
	if len(acceptable) == 0 {
		return ""
	}
	return acceptable[0]
}

// bestMediaType returns the acceptable media type with the highest quality in
// accept. The most specific matching range determines the quality of each
// candidate, and a quality of 0 excludes it. Ties are resolved in favor of the
// earlier acceptable type. Malformed ranges are ignored.
func bestMediaType(acceptable []string, accept string) string {
	ranges := goautoneg.ParseAccept(accept)

	var (
		best  string
		bestQ float64
	)
	for _, candidate := range acceptable {
		typ, subtype, found := strings.Cut(strings.ToLower(candidate), "/")
		if !found {
			continue
		}

		specificity, q := -1, 0.0
		for _, r := range ranges {
			rtyp, rsub := strings.ToLower(r.Type), strings.ToLower(r.SubType)
			var s int
			switch {
			case rtyp == typ && rsub == subtype:
				s = 2
			case rtyp == typ && rsub == "*":
				s = 1
			case rtyp == "*" && rsub == "*":
				s = 0
			default:
				continue
			}
			if s > specificity {
				specificity, q = s, r.Q
			}
		}

		if q > bestQ {
			best, bestQ = candidate, q
		}
	}

	return best
}

// bestLanguage returns the acceptable language that best matches the
// Accept-Language header value. An empty header matches the first acceptable
// language.
func bestLanguage(acceptable []string, accept string) string {
	var (
		supported []language.Tag
		names     []string
	)
	for _, l := range acceptable {
		tag, err := language.Parse(l)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		names = append(names, l)
	}
	if len(supported) == 0 {
		return ""
	}
	if accept == "" {
		return names[0]
	}

	desired, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(desired) == 0 {
		return ""
	}

	_, idx, conf := language.NewMatcher(supported).Match(desired...)
	if conf == language.No {
		return ""
	}

	return names[idx]
}
