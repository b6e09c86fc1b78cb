package parse

import (
	"encoding/json"
)

// MediaTypeJSON is the media type handled by the JSON plugin.
const MediaTypeJSON = "application/json"

// JSONPlugin returns the plugin that decodes JSON bodies into generic Go
// values: objects become map[string]any, arrays []any.
func JSONPlugin() Plugin {
	return Plugin{
		Name:       "json",
		MediaTypes: []string{MediaTypeJSON},
		New: func(mediaType string) Parser {
			return JSONParser{mediaType: mediaType}
		},
	}
}

// JSONParser decodes JSON documents.
type JSONParser struct {
	mediaType string
}

var _ Parser = JSONParser{}

// Parse implements the Parser interface.
func (p JSONParser) Parse(data []byte, charset string, _ map[string]string) (any, error) {
	utf8Data, err := ToUTF8(data, charset)
	if err != nil {
		return nil, &Error{MediaType: p.mediaType, Charset: charset, Err: err}
	}

	var v any
	if err = json.Unmarshal(utf8Data, &v); err != nil {
		return nil, &Error{MediaType: p.mediaType, Charset: charset, Err: err}
	}

	return v, nil
}
