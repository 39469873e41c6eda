package http2

import (
	"errors"
	"reflect"
	"testing"

	"github.com/searchktools/headparse/core/http"
	"golang.org/x/net/http2/hpack"
)

func mustParse(t *testing.T, raw string) *http.Request {
	t.Helper()
	req := http.NewRequest()
	if res := http.NewParser(http.DefaultParserConfig()).ParseBytes([]byte(raw), req); res != http.Success {
		t.Fatalf("parse %q: %v", raw, res)
	}
	return req
}

func TestFieldsAbsoluteForm(t *testing.T) {
	req := mustParse(t, "GET http://www.hatsunemiku.com/songs?id=1 HTTP/1.1\r\n"+
		"Host: www.example.com\r\n"+
		"Connection: keep-alive\r\n"+
		"Accept-Encoding: utf-8\r\n\r\n")

	fields, err := Fields(req)
	if err != nil {
		t.Fatalf("Fields error: %v", err)
	}

	want := []hpack.HeaderField{
		{Name: ":method", Value: "GET"},
		{Name: ":scheme", Value: "http"},
		{Name: ":authority", Value: "www.hatsunemiku.com"},
		{Name: ":path", Value: "/songs?id=1"},
		{Name: "accept-encoding", Value: "utf-8"},
	}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("Fields mismatch:\n got  %v\n want %v", fields, want)
	}
}

func TestFieldsOriginForm(t *testing.T) {
	req := mustParse(t, "POST /submit HTTP/1.1\r\nhost: api.local\r\nTE: trailers\r\nCookie: a=1\r\n\r\n")

	fields, err := Fields(req)
	if err != nil {
		t.Fatalf("Fields error: %v", err)
	}

	want := []hpack.HeaderField{
		{Name: ":method", Value: "POST"},
		{Name: ":scheme", Value: "http"},
		{Name: ":authority", Value: "api.local"},
		{Name: ":path", Value: "/submit"},
		{Name: "cookie", Value: "a=1", Sensitive: true},
		{Name: "te", Value: "trailers"},
	}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("Fields mismatch:\n got  %v\n want %v", fields, want)
	}
}

func TestFieldsConnect(t *testing.T) {
	req := mustParse(t, "CONNECT example.com:443 HTTP/1.1\r\nTE: gzip\r\n\r\n")

	fields, err := Fields(req)
	if err != nil {
		t.Fatalf("Fields error: %v", err)
	}

	want := []hpack.HeaderField{
		{Name: ":method", Value: "CONNECT"},
		{Name: ":authority", Value: "example.com:443"},
	}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("Fields mismatch:\n got  %v\n want %v", fields, want)
	}
}

func TestFieldsIncomplete(t *testing.T) {
	if _, err := Fields(http.NewRequest()); !errors.Is(err, ErrIncompleteHead) {
		t.Errorf("Expected ErrIncompleteHead, got %v", err)
	}
}

func TestEncodeHeadDecodes(t *testing.T) {
	req := mustParse(t, "GET /index.html HTTP/1.1\r\nHost: www.example.com\r\nAccept: */*\r\n\r\n")

	block, err := EncodeHead(req)
	if err != nil {
		t.Fatalf("EncodeHead error: %v", err)
	}

	decoded, err := hpack.NewDecoder(4096, nil).DecodeFull(block)
	if err != nil {
		t.Fatalf("DecodeFull error: %v", err)
	}

	want, _ := Fields(req)
	if len(decoded) != len(want) {
		t.Fatalf("Expected %d fields, got %d", len(want), len(decoded))
	}
	for i := range want {
		if decoded[i].Name != want[i].Name || decoded[i].Value != want[i].Value {
			t.Errorf("Field %d: got %s=%s, want %s=%s", i, decoded[i].Name, decoded[i].Value, want[i].Name, want[i].Value)
		}
	}
}

func TestEncoderDynamicTable(t *testing.T) {
	req := mustParse(t, "GET /index.html HTTP/1.1\r\nHost: www.example.com\r\nX-Trace: abcdef\r\n\r\n")

	enc := NewEncoder()
	first, err := enc.Encode(req)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	second, err := enc.Encode(req)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	// Repeated fields are indexed the second time
	if len(second) >= len(first) {
		t.Errorf("Expected second block (%d bytes) to be smaller than first (%d bytes)", len(second), len(first))
	}

	dec := hpack.NewDecoder(4096, nil)
	if _, err := dec.DecodeFull(first); err != nil {
		t.Fatalf("DecodeFull first: %v", err)
	}
	fields, err := dec.DecodeFull(second)
	if err != nil {
		t.Fatalf("DecodeFull second: %v", err)
	}
	if fields[len(fields)-1].Value != "abcdef" {
		t.Errorf("Expected x-trace value abcdef, got %q", fields[len(fields)-1].Value)
	}
}
