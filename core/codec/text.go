package codec

import (
	"bytes"
	"encoding/hex"
)

// TextEncoder prints the result line by line: the outcome text alone on
// failure, otherwise method, URL and version followed by one
// "name value" line per header in name order.
type TextEncoder struct{}

func (c *TextEncoder) Encode(rep Report) ([]byte, error) {
	var buf bytes.Buffer

	if !rep.Result.OK() || rep.Request == nil {
		buf.WriteString(rep.Result.String())
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}

	req := rep.Request
	buf.Write(req.Method)
	buf.WriteByte('\n')
	buf.Write(req.URL)
	buf.WriteByte('\n')
	buf.Write(req.Version)
	buf.WriteByte('\n')

	for _, name := range req.HeaderNames() {
		buf.WriteString(name)
		buf.WriteByte(' ')
		buf.WriteString(req.Headers[name])
		buf.WriteByte('\n')
	}

	if len(rep.HPACK) > 0 {
		buf.WriteString("hpack ")
		buf.WriteString(hex.EncodeToString(rep.HPACK))
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

func (c *TextEncoder) Name() string {
	return "text"
}
