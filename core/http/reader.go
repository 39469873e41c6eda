package http

import (
	"bytes"
	"errors"
	"io"

	"github.com/searchktools/headparse/core/pools"
)

// DefaultMaxHeadBytes caps a request head when the caller passes no limit.
const DefaultMaxHeadBytes = 8192

var (
	ErrHeadTooLarge = errors.New("request head too large")

	headEnd = []byte("\r\n\r\n")
)

// HeadReader collects transport reads until a whole request head is
// buffered, then hands exactly those bytes to the Parser. The parser
// itself never caps the header block; HeadReader does.
type HeadReader struct {
	r       io.Reader
	parser  *Parser
	maxHead int
}

// NewHeadReader creates a reader that buffers at most maxHeadBytes.
func NewHeadReader(r io.Reader, parser *Parser, maxHeadBytes int) *HeadReader {
	if maxHeadBytes <= 0 {
		maxHeadBytes = DefaultMaxHeadBytes
	}
	if parser == nil {
		parser = NewParser(DefaultParserConfig())
	}

	return &HeadReader{
		r:       r,
		parser:  parser,
		maxHead: maxHeadBytes,
	}
}

// ReadRequest reads one request head. It returns the parsed request and a
// copy of whatever was read past the blank line (the start of the body,
// left uninterpreted).
//
// A malformed head yields a *ParseError. A stream that ends before any
// byte yields io.EOF. One that ends inside the head has what was buffered
// parsed anyway: a failure there is returned as a *ParseError, otherwise
// io.ErrUnexpectedEOF.
//
// Buffers come from the shared pool, so readers are cheap to create per
// connection or per input.
func (hr *HeadReader) ReadRequest() (*Request, []byte, error) {
	buf := pools.GetBytes(hr.maxHead)
	defer pools.PutBytes(buf)

	filled := 0
	for {
		n, err := hr.r.Read(buf[filled:])
		if n > 0 {
			// the terminator may straddle two reads
			from := max(filled-len(headEnd)+1, 0)
			filled += n

			if idx := bytes.Index(buf[from:filled], headEnd); idx != -1 {
				end := from + idx + len(headEnd)
				req, perr := hr.parse(buf, end)
				if perr != nil {
					return nil, nil, perr
				}
				return req, bytes.Clone(buf[end:filled]), nil
			}

			if filled == len(buf) {
				return nil, nil, ErrHeadTooLarge
			}
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, nil, err
			}
			if filled == 0 {
				return nil, nil, io.EOF
			}
			if _, perr := hr.parse(buf, filled); perr != nil {
				return nil, nil, perr
			}
			return nil, nil, io.ErrUnexpectedEOF
		}
	}
}

func (hr *HeadReader) parse(buf []byte, n int) (*Request, error) {
	req := NewRequest()
	if res := hr.parser.Parse(buf, n, req); res != Success {
		return nil, &ParseError{Result: res}
	}
	return req, nil
}
