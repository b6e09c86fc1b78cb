package parse

import (
	"fmt"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// ToUTF8 transcodes data from charset to UTF-8. Charset names are resolved
// with the WHATWG encoding index, so labels such as "latin1" and "cp1252" are
// accepted. An empty charset is treated as DefaultCharset.
func ToUTF8(data []byte, charset string) ([]byte, error) {
	if charset == "" {
		charset = DefaultCharset
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset '%s': %w", charset, err)
	}
	if enc == unicode.UTF8 {
		return data, nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed decoding %s data: %w", charset, err)
	}

	return out, nil
}
