/*
Package headparse validates and decomposes the head of an HTTP/1.x request.

The core is a single-pass state machine that scans a byte buffer holding a
request line and header block and fills a Request with the method, target,
version and header pairs, or reports exactly why the input was rejected.

Features

  - Strict grammar: single spaces between request-line fields, CRLF line
    endings only, "Name: Value" header lines
  - Length limits on method (32), target (1024) and version (32)
  - Precise outcomes: every failure has its own Result value
  - Stateless parser, safe to share between goroutines
  - HeadReader to collect a whole head from a stream under a size cap
  - HTTP/2 bridge that HPACK-encodes a parsed head
  - Text, JSON and protobuf reports

Quick Start

	parser := http.NewParser(http.DefaultParserConfig())
	req := http.NewRequest()

	if res := parser.ParseBytes(data, req); res != http.Success {
		log.Printf("rejected: %v", res)
		return
	}
	fmt.Println(string(req.Method), string(req.URL), string(req.Version))

Modules

  - app: wires configuration, reader, parser and output
  - config: flags, environment and JSON file loading
  - core/http: Request, Parser, Result and HeadReader
  - core/http2: HPACK translation of parsed heads
  - core/codec: report encoders
  - core/inspect: decoding of well-known header values
  - core/observability: parse outcome counters
  - core/optimize: CRLF search with CPU feature dispatch
  - core/pools: size-tiered byte pools

Not covered: message bodies, chunked transfer coding, header folding,
case-insensitive lookup, URL decoding and resuming a parse across buffers.
*/
package headparse
