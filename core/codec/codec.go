package codec

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/searchktools/headparse/core/http"
	"github.com/searchktools/headparse/core/inspect"
)

var (
	ErrUnsupportedCodec = errors.New("unsupported codec")
)

// Report is everything known about one parse.
type Report struct {
	Result  http.Result
	Request *http.Request // nil or partial unless Result is Success

	// Optional decorations
	Summary *inspect.Summary
	HPACK   []byte
}

// Encoder renders a Report
type Encoder interface {
	Encode(rep Report) ([]byte, error)

	// Name returns the codec name
	Name() string
}

// Names lists the codecs GetEncoder knows.
var Names = []string{"text", "json", "protobuf"}

// GetEncoder returns an encoder by name
func GetEncoder(name string) (Encoder, error) {
	switch strings.ToLower(name) {
	case "text", "":
		return &TextEncoder{}, nil
	case "json":
		return &JSONEncoder{}, nil
	case "protobuf", "proto":
		return &ProtobufEncoder{}, nil
	default:
		return nil, ErrUnsupportedCodec
	}
}

type jsonReport struct {
	Result  string            `json:"result"`
	OK      bool              `json:"ok"`
	Method  string            `json:"method,omitempty"`
	URL     string            `json:"url,omitempty"`
	Version string            `json:"version,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Inspect *inspect.Summary  `json:"inspect,omitempty"`
	HPACK   []byte            `json:"hpack,omitempty"`
}

// JSONEncoder renders a Report as a JSON object
type JSONEncoder struct{}

func (c *JSONEncoder) Encode(rep Report) ([]byte, error) {
	out := jsonReport{
		Result: rep.Result.String(),
		OK:     rep.Result.OK(),
	}

	// partial fields are not reported
	if rep.Result.OK() && rep.Request != nil {
		out.Method = string(rep.Request.Method)
		out.URL = string(rep.Request.URL)
		out.Version = string(rep.Request.Version)
		out.Headers = rep.Request.Headers
		out.Inspect = rep.Summary
		out.HPACK = rep.HPACK
	}

	return json.Marshal(out)
}

func (c *JSONEncoder) Name() string {
	return "json"
}
