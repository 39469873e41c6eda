package http

import (
	"bytes"

	"github.com/searchktools/headparse/core/optimize"
	"golang.org/x/net/http/httpguts"
)

// DuplicatePolicy decides what happens when a header name repeats.
type DuplicatePolicy uint8

const (
	// KeepFirst ignores later occurrences of a name.
	KeepFirst DuplicatePolicy = iota
	// KeepLast lets later occurrences overwrite earlier ones.
	KeepLast
)

func (d DuplicatePolicy) String() string {
	switch d {
	case KeepFirst:
		return "first"
	case KeepLast:
		return "last"
	default:
		return "unknown"
	}
}

var headerSep = []byte(": ")

// splitHeaders breaks the raw header block into lines on CRLF and each
// line into name and value on the first ": ". It reports false on the
// first line without a separator, leaving earlier pairs in req.
func (p *Parser) splitHeaders(block []byte, req *Request) bool {
	for _, line := range optimize.SplitCRLF(block) {
		sep := bytes.Index(line, headerSep)
		if sep == -1 {
			return false
		}

		key := string(line[:sep])
		value := string(line[sep+len(headerSep):])

		if p.cfg.Strict && (!httpguts.ValidHeaderFieldName(key) || !httpguts.ValidHeaderFieldValue(value)) {
			return false
		}

		req.setHeader(key, value, p.cfg.Duplicates)
	}

	return true
}
