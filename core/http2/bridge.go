package http2

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/searchktools/headparse/core/http"
	"golang.org/x/net/http2/hpack"
)

var (
	ErrIncompleteHead = errors.New("request head has no method or target")
)

// Fields that only make sense on an HTTP/1 connection (RFC 9113 8.2.2)
var connectionSpecific = map[string]bool{
	"connection":        true,
	"keep-alive":        true,
	"proxy-connection":  true,
	"transfer-encoding": true,
	"upgrade":           true,
	"host":              true, // becomes :authority
}

// Fields translates a parsed HTTP/1 head into HTTP/2 header fields:
// pseudo-headers first, then the remaining fields with lower-cased names
// in sorted order.
func Fields(req *http.Request) ([]hpack.HeaderField, error) {
	if len(req.Method) == 0 || len(req.URL) == 0 {
		return nil, ErrIncompleteHead
	}

	method := string(req.Method)
	target := string(req.URL)

	fields := make([]hpack.HeaderField, 0, len(req.Headers)+4)
	fields = append(fields, hpack.HeaderField{Name: ":method", Value: method})

	switch {
	case method == "CONNECT":
		// authority-form
		fields = append(fields, hpack.HeaderField{Name: ":authority", Value: target})

	case strings.Contains(target, "://"):
		// absolute-form
		u, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("parse target %q: %w", target, err)
		}
		fields = append(fields,
			hpack.HeaderField{Name: ":scheme", Value: u.Scheme},
			hpack.HeaderField{Name: ":authority", Value: u.Host},
			hpack.HeaderField{Name: ":path", Value: u.RequestURI()},
		)

	default:
		// origin-form or asterisk-form
		fields = append(fields, hpack.HeaderField{Name: ":scheme", Value: "http"})
		if host, ok := hostHeader(req); ok {
			fields = append(fields, hpack.HeaderField{Name: ":authority", Value: host})
		}
		fields = append(fields, hpack.HeaderField{Name: ":path", Value: target})
	}

	for _, name := range req.HeaderNames() {
		lower := strings.ToLower(name)
		value := req.Headers[name]

		if connectionSpecific[lower] {
			continue
		}
		if lower == "te" && value != "trailers" {
			continue
		}

		fields = append(fields, hpack.HeaderField{
			Name:      lower,
			Value:     value,
			Sensitive: lower == "authorization" || lower == "cookie",
		})
	}

	return fields, nil
}

// hostHeader finds Host in any letter case; the smallest matching key
// wins so the result does not depend on map order.
func hostHeader(req *http.Request) (string, bool) {
	if v, ok := req.Headers["Host"]; ok {
		return v, true
	}

	keys := make([]string, 0, 1)
	for k := range req.Headers {
		if strings.EqualFold(k, "host") {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "", false
	}
	sort.Strings(keys)
	return req.Headers[keys[0]], true
}

// Encoder HPACK-encodes request heads. It keeps the dynamic table between
// calls, like one HTTP/2 connection would, so it must not be shared
// between goroutines.
type Encoder struct {
	buf bytes.Buffer
	enc *hpack.Encoder
}

func NewEncoder() *Encoder {
	e := &Encoder{}
	e.enc = hpack.NewEncoder(&e.buf)
	return e
}

// Encode returns the header block for req. The slice is a fresh copy.
func (e *Encoder) Encode(req *http.Request) ([]byte, error) {
	fields, err := Fields(req)
	if err != nil {
		return nil, err
	}

	e.buf.Reset()
	for _, f := range fields {
		if err := e.enc.WriteField(f); err != nil {
			return nil, err
		}
	}

	return bytes.Clone(e.buf.Bytes()), nil
}

// EncodeHead encodes req with a fresh dynamic table.
func EncodeHead(req *http.Request) ([]byte, error) {
	return NewEncoder().Encode(req)
}
