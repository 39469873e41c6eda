package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override, e.g. HEADPARSE_FORMAT.
const EnvPrefix = "HEADPARSE_"

// Config holds all application configuration.
type Config struct {
	Input  string `json:"input"`  // file to read, "-" for stdin, "" for the built-in sample
	Format string `json:"format"` // text, json or protobuf

	MaxMethod    int `json:"max_method"`
	MaxURL       int `json:"max_url"`
	MaxVersion   int `json:"max_version"`
	MaxHeadBytes int `json:"max_head_bytes"`

	Duplicates string `json:"duplicates"` // first or last
	Strict     bool   `json:"strict"`

	HPACK   bool `json:"hpack"`
	Inspect bool `json:"inspect"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Format:       "text",
		MaxMethod:    32,
		MaxURL:       1024,
		MaxVersion:   32,
		MaxHeadBytes: 8192,
		Duplicates:   "first",
	}
}

// New loads configuration from the command line and the environment and
// exits on bad input, like flag.Parse does.
func New() *Config {
	cfg, err := Parse(os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return cfg
}

// Parse builds a Config. Precedence, lowest first: defaults, the JSON
// file named by -config, environment, explicit flags.
func Parse(args []string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("headparse", flag.ContinueOnError)
	file := fs.String("config", "", "JSON configuration file")
	fs.StringVar(&cfg.Input, "input", cfg.Input, "request file (- for stdin, empty for the built-in sample)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format (text/json/protobuf)")
	fs.IntVar(&cfg.MaxMethod, "max-method", cfg.MaxMethod, "maximum method length")
	fs.IntVar(&cfg.MaxURL, "max-url", cfg.MaxURL, "maximum target length")
	fs.IntVar(&cfg.MaxVersion, "max-version", cfg.MaxVersion, "maximum version length")
	fs.IntVar(&cfg.MaxHeadBytes, "max-head", cfg.MaxHeadBytes, "maximum request head size in bytes")
	fs.StringVar(&cfg.Duplicates, "duplicates", cfg.Duplicates, "repeated header policy (first/last)")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "reject header names and values that are not RFC 7230 tokens")
	fs.BoolVar(&cfg.HPACK, "h2", cfg.HPACK, "also emit the HTTP/2 HPACK header block")
	fs.BoolVar(&cfg.Inspect, "inspect", cfg.Inspect, "decode well-known headers in json/protobuf output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Flags given explicitly must win over the file and the environment,
	// so remember them and re-apply after loading those.
	explicit := make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	if *file != "" {
		if err := cfg.loadJSON(*file); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(getenv); err != nil {
		return nil, err
	}
	for name, value := range explicit {
		if err := fs.Set(name, value); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadJSON(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse JSON config: %w", err)
	}
	return nil
}

func (c *Config) loadEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"INPUT":      &c.Input,
		"FORMAT":     &c.Format,
		"DUPLICATES": &c.Duplicates,
	}
	for key, dst := range strs {
		if v := getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MAX_METHOD":     &c.MaxMethod,
		"MAX_URL":        &c.MaxURL,
		"MAX_VERSION":    &c.MaxVersion,
		"MAX_HEAD_BYTES": &c.MaxHeadBytes,
	}
	for key, dst := range ints {
		v := getenv(EnvPrefix + key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"STRICT":  &c.Strict,
		"HPACK":   &c.HPACK,
		"INSPECT": &c.Inspect,
	}
	for key, dst := range bools {
		v := getenv(EnvPrefix + key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
	}

	return nil
}

// Validate checks the values that have a fixed set of choices or must be
// positive.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Duplicates) {
	case "first", "last":
	default:
		return fmt.Errorf("invalid duplicates policy %q (want first or last)", c.Duplicates)
	}

	switch strings.ToLower(c.Format) {
	case "text", "json", "protobuf", "proto":
	default:
		return fmt.Errorf("invalid format %q", c.Format)
	}

	for name, v := range map[string]int{
		"max-method":  c.MaxMethod,
		"max-url":     c.MaxURL,
		"max-version": c.MaxVersion,
		"max-head":    c.MaxHeadBytes,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}

	return nil
}
