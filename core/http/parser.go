package http

// Field limits. A field may hold exactly its maximum; one more byte fails.
const (
	MaxMethodLen  = 32
	MaxURLLen     = 1024
	MaxVersionLen = 32
)

const (
	sp = ' '
	cr = '\r'
	lf = '\n'
)

// ParserConfig configures a Parser
type ParserConfig struct {
	MaxMethodLen  int
	MaxURLLen     int
	MaxVersionLen int

	// Duplicates picks which value wins when a header name repeats.
	Duplicates DuplicatePolicy

	// Strict additionally requires RFC 7230 header names and values.
	Strict bool
}

// DefaultParserConfig returns the reference limits with first-wins headers.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		MaxMethodLen:  MaxMethodLen,
		MaxURLLen:     MaxURLLen,
		MaxVersionLen: MaxVersionLen,
		Duplicates:    KeepFirst,
	}
}

// Parser scans request heads. It holds no per-call state, so one Parser
// may serve many goroutines as long as each passes its own Request.
type Parser struct {
	cfg ParserConfig
}

// NewParser creates a parser; non-positive limits fall back to defaults.
func NewParser(cfg ParserConfig) *Parser {
	if cfg.MaxMethodLen <= 0 {
		cfg.MaxMethodLen = MaxMethodLen
	}
	if cfg.MaxURLLen <= 0 {
		cfg.MaxURLLen = MaxURLLen
	}
	if cfg.MaxVersionLen <= 0 {
		cfg.MaxVersionLen = MaxVersionLen
	}

	return &Parser{cfg: cfg}
}

// Config returns the effective configuration.
func (p *Parser) Config() ParserConfig {
	return p.cfg
}

// ParseBytes parses all of data into req.
func (p *Parser) ParseBytes(data []byte, req *Request) Result {
	return p.Parse(data, len(data), req)
}

// Parse scans the first n bytes of data and fills req, which must be
// empty. Bytes after the blank line that ends the head are not looked at.
// On failure req is left partially filled and should be discarded.
func (p *Parser) Parse(data []byte, n int, req *Request) Result {
	if n < 0 || n > len(data) {
		return InvalidFormat
	}
	data = data[:n]

	var (
		state = eMethod
		block []byte // raw header lines joined by CRLF
		ended bool   // blank line seen
		i     int
	)

scan:
	for i < n {
		c := data[i]

		switch state {
		case eMethod:
			switch c {
			case sp:
				if len(req.Method) == 0 {
					return InvalidMethod
				}
				state = eURL
			case cr, lf:
				return InvalidFormat
			default:
				if len(req.Method) == p.cfg.MaxMethodLen {
					return MethodTooLong
				}
				req.Method = append(req.Method, c)
			}
			i++

		case eURL:
			switch c {
			case sp:
				if len(req.URL) == 0 {
					return InvalidURL
				}
				state = eVersion
			case cr, lf:
				return InvalidFormat
			default:
				if len(req.URL) == p.cfg.MaxURLLen {
					return URLTooLong
				}
				req.URL = append(req.URL, c)
			}
			i++

		case eVersion:
			if c != cr {
				if len(req.Version) == p.cfg.MaxVersionLen {
					return VersionTooLong
				}
				req.Version = append(req.Version, c)
				i++
				continue
			}

			switch {
			case len(req.Version) == 0:
				return InvalidFormat
			case i+1 >= n:
				return InvalidFormat
			case data[i+1] != lf:
				return InvalidCRLF
			}
			state = eHeaders
			i += 2

		case eHeaders:
			switch c {
			case cr:
				if i+1 >= n || data[i+1] != lf {
					return InvalidFormat
				}
				// CRLF right after the request line: no header lines at all
				if len(block) == 0 {
					ended = true
					break scan
				}
				if i+3 < n && data[i+2] == cr && data[i+3] == lf {
					ended = true
					break scan
				}
				block = append(block, cr, lf)
				i += 2
			case lf:
				return InvalidHeaders
			default:
				block = append(block, c)
				i++
			}
		}
	}

	if state != eHeaders {
		// request line never terminated
		return InvalidFormat
	}

	if ended && len(block) == 0 {
		return Success
	}

	if !p.splitHeaders(block, req) {
		return InvalidHeaders
	}

	return Success
}
