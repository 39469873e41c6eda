package http

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestHeadReaderSingleRead(t *testing.T) {
	hr := NewHeadReader(strings.NewReader(sampleRequest), nil, 0)

	req, rest, err := hr.ReadRequest()
	if err != nil {
		t.Fatalf("ReadRequest error: %v", err)
	}

	if string(req.Method) != "GET" || string(req.Version) != "HTTP/1.1" {
		t.Errorf("Unexpected request line: %q %q %q", req.Method, req.URL, req.Version)
	}
	if req.Headers["Content-Length"] != "10" {
		t.Errorf("Expected Content-Length 10, got %q", req.Headers["Content-Length"])
	}
	if string(rest) != "Hello World" {
		t.Errorf("Expected body prefix %q, got %q", "Hello World", rest)
	}
}

func TestHeadReaderOneByteReads(t *testing.T) {
	// The terminator arrives split over several reads
	hr := NewHeadReader(iotest.OneByteReader(strings.NewReader(sampleRequest)), nil, 0)

	req, rest, err := hr.ReadRequest()
	if err != nil {
		t.Fatalf("ReadRequest error: %v", err)
	}
	if len(req.Headers) != 3 {
		t.Errorf("Expected 3 headers, got %d", len(req.Headers))
	}
	if len(rest) != 0 {
		t.Errorf("Expected no body bytes with one-byte reads, got %q", rest)
	}
}

func TestHeadReaderTooLarge(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nX-Pad: " + strings.Repeat("a", 200) + "\r\n\r\n"
	hr := NewHeadReader(strings.NewReader(raw), nil, 64)

	if _, _, err := hr.ReadRequest(); !errors.Is(err, ErrHeadTooLarge) {
		t.Errorf("Expected ErrHeadTooLarge, got %v", err)
	}
}

func TestHeadReaderExactFit(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nA: b\r\n\r\n"
	hr := NewHeadReader(strings.NewReader(raw), nil, len(raw))

	req, _, err := hr.ReadRequest()
	if err != nil {
		t.Fatalf("ReadRequest error: %v", err)
	}
	if req.Headers["A"] != "b" {
		t.Errorf("Expected A=b, got %q", req.Headers["A"])
	}
}

func TestHeadReaderEOF(t *testing.T) {
	hr := NewHeadReader(strings.NewReader(""), nil, 0)
	if _, _, err := hr.ReadRequest(); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}

	// what arrived parses cleanly, the blank line is just missing
	hr = NewHeadReader(strings.NewReader("GET / HTTP/1.1\r\nHost: a"), nil, 0)
	if _, _, err := hr.ReadRequest(); err != io.ErrUnexpectedEOF {
		t.Errorf("Expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestHeadReaderEOFMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Result
	}{
		{"bare LF terminator", "GET / HTTP/1.1\r\nA: b\n\n", InvalidHeaders},
		{"dangling CRLF", "GET / HTTP/1.1\r\nHost: a\r\n", InvalidHeaders},
		{"empty method", " / HTTP/1.1\r\n", InvalidMethod},
		{"CR then junk in version", "GET / HTTP/1.1\rX", InvalidCRLF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hr := NewHeadReader(strings.NewReader(tt.raw), nil, 0)
			_, _, err := hr.ReadRequest()

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Expected *ParseError, got %v", err)
			}
			if perr.Result != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, perr.Result)
			}

			// same outcome as parsing the bytes directly
			if res := NewParser(DefaultParserConfig()).ParseBytes([]byte(tt.raw), NewRequest()); res != perr.Result {
				t.Errorf("ParseBytes gave %v, reader gave %v", res, perr.Result)
			}
		})
	}
}

func TestHeadReaderReusesBuffers(t *testing.T) {
	if raceEnabled {
		t.Skip("pool reuse is not deterministic under -race")
	}

	p := NewParser(DefaultParserConfig())
	raw := "GET / HTTP/1.1\r\nHost: a\r\n\r\n"

	// warm the shared pool
	if _, _, err := NewHeadReader(strings.NewReader(raw), p, 0).ReadRequest(); err != nil {
		t.Fatalf("ReadRequest error: %v", err)
	}

	res := testing.Benchmark(func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, _, err := NewHeadReader(strings.NewReader(raw), p, 0).ReadRequest(); err != nil {
				b.Fatal(err)
			}
		}
	})

	// a fresh head buffer per reader would cost DefaultMaxHeadBytes each
	if perOp := res.AllocedBytesPerOp(); perOp >= DefaultMaxHeadBytes/2 {
		t.Errorf("Expected pooled head buffers, got %d bytes/op", perOp)
	}

	allocs := testing.AllocsPerRun(100, func() {
		_, _, _ = NewHeadReader(strings.NewReader(raw), p, 0).ReadRequest()
	})
	if allocs > 32 {
		t.Errorf("Expected at most 32 allocations per fresh reader, got %v", allocs)
	}
}

func TestHeadReaderParseError(t *testing.T) {
	hr := NewHeadReader(strings.NewReader(" / HTTP/1.1\r\n\r\n"), nil, 0)

	_, _, err := hr.ReadRequest()

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
	if perr.Result != InvalidMethod {
		t.Errorf("Expected InvalidMethod, got %v", perr.Result)
	}
	if !errors.Is(err, ErrInvalidMethod) {
		t.Error("Expected error to match ErrInvalidMethod")
	}
}

func TestHeadReaderReadError(t *testing.T) {
	boom := errors.New("boom")
	hr := NewHeadReader(iotest.ErrReader(boom), nil, 0)

	if _, _, err := hr.ReadRequest(); !errors.Is(err, boom) {
		t.Errorf("Expected transport error, got %v", err)
	}
}

func TestHeadReaderPipelinedInput(t *testing.T) {
	raw := "GET /a HTTP/1.1\r\n\r\n"
	hr := NewHeadReader(iotest.HalfReader(strings.NewReader(raw+raw)), nil, 0)

	req, rest, err := hr.ReadRequest()
	if err != nil {
		t.Fatalf("ReadRequest error: %v", err)
	}
	if string(req.URL) != "/a" {
		t.Errorf("Expected /a, got %q", req.URL)
	}
	// the second head is handed back untouched
	if string(rest) != raw {
		t.Errorf("Expected rest %q, got %q", raw, rest)
	}
}
