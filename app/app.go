package app

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/searchktools/headparse/config"
	"github.com/searchktools/headparse/core/codec"
	"github.com/searchktools/headparse/core/http"
	"github.com/searchktools/headparse/core/http2"
	"github.com/searchktools/headparse/core/inspect"
	"github.com/searchktools/headparse/core/observability"
)

// SampleRequest is parsed when no input is configured.
const SampleRequest = "GET http://www.hatsunemiku.com/ HTTP/1.1\r\n" +
	"Host: www.example.com\r\n" +
	"Content-Length: 10\r\n" +
	"Accept-Encoding: utf-8\r\n" +
	"\r\n" +
	"Hello World"

// App reads one request head, parses it and writes a report
type App struct {
	cfg     *config.Config
	parser  *http.Parser
	encoder codec.Encoder
	stats   *observability.ParseStats
	logger  *log.Logger
}

// New creates an application instance
func New(cfg *config.Config) (*App, error) {
	enc, err := codec.GetEncoder(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("format %q: %w", cfg.Format, err)
	}

	return &App{
		cfg:     cfg,
		parser:  http.NewParser(ParserConfig(cfg)),
		encoder: enc,
		stats:   observability.NewParseStats(),
		logger:  log.New(os.Stderr, "headparse: ", log.LstdFlags),
	}, nil
}

// ParserConfig maps application settings onto the parser's.
func ParserConfig(cfg *config.Config) http.ParserConfig {
	pc := http.DefaultParserConfig()
	pc.MaxMethodLen = cfg.MaxMethod
	pc.MaxURLLen = cfg.MaxURL
	pc.MaxVersionLen = cfg.MaxVersion
	pc.Strict = cfg.Strict
	if strings.EqualFold(cfg.Duplicates, "last") {
		pc.Duplicates = http.KeepLast
	}
	return pc
}

// SetLogger replaces the stderr logger
func (a *App) SetLogger(l *log.Logger) {
	a.logger = l
}

// Stats exposes the parse counters
func (a *App) Stats() *observability.ParseStats {
	return a.stats
}

// Run parses the configured input and writes the report to stdout. A
// failed parse is reported and also returned as a *http.ParseError.
func (a *App) Run() error {
	in, closeFn, err := a.openInput()
	if err != nil {
		return err
	}
	defer closeFn()

	return a.Process(in, os.Stdout)
}

func (a *App) openInput() (io.Reader, func(), error) {
	switch a.cfg.Input {
	case "":
		return strings.NewReader(SampleRequest), func() {}, nil
	case "-":
		return os.Stdin, func() {}, nil
	default:
		f, err := os.Open(a.cfg.Input)
		if err != nil {
			return nil, nil, fmt.Errorf("open input: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
}

// Process reads one request head from r and writes its report to w.
func (a *App) Process(r io.Reader, w io.Writer) error {
	a.logger.Printf("parsing with %s output, limits method=%d url=%d version=%d head=%d",
		a.encoder.Name(), a.cfg.MaxMethod, a.cfg.MaxURL, a.cfg.MaxVersion, a.cfg.MaxHeadBytes)

	hr := http.NewHeadReader(r, a.parser, a.cfg.MaxHeadBytes)

	start := time.Now()
	req, rest, err := hr.ReadRequest()
	elapsed := time.Since(start)

	var perr *http.ParseError
	switch {
	case errors.As(err, &perr):
		a.stats.Record(perr.Result, 0, elapsed)
		if werr := a.write(w, codec.Report{Result: perr.Result}); werr != nil {
			return werr
		}
		a.logger.Printf("parse failed: %v", perr.Result)
		return err
	case err != nil:
		return fmt.Errorf("read request head: %w", err)
	}

	a.stats.Record(http.Success, headSize(req), elapsed)

	rep := codec.Report{Result: http.Success, Request: req}
	if a.cfg.Inspect {
		s := inspect.Summarize(req)
		rep.Summary = &s
	}
	if a.cfg.HPACK {
		block, err := http2.EncodeHead(req)
		if err != nil {
			return fmt.Errorf("hpack: %w", err)
		}
		rep.HPACK = block
	}

	if err := a.write(w, rep); err != nil {
		return err
	}

	a.logger.Printf("parsed %d headers, %d body bytes left unread; %v", len(req.Headers), len(rest), a.stats.Snapshot())
	return nil
}

func (a *App) write(w io.Writer, rep codec.Report) error {
	out, err := a.encoder.Encode(rep)
	if err != nil {
		return fmt.Errorf("encode %s: %w", a.encoder.Name(), err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// headSize approximates the bytes the head occupied on the wire.
func headSize(req *http.Request) int {
	n := len(req.Method) + len(req.URL) + len(req.Version) + 4 + 2
	for k, v := range req.Headers {
		n += len(k) + len(v) + 4
	}
	return n
}
