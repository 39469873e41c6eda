package http

type parserState uint8

const (
	eMethod parserState = iota
	eURL
	eVersion
	eHeaders
)
