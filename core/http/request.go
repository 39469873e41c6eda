package http

import (
	"sort"
	"sync"
)

// Request holds the parsed head of an HTTP/1.x request.
//
// Method, URL and Version grow one byte at a time while the parser scans.
// Header keys keep the case they were sent with.
type Request struct {
	Method  []byte
	URL     []byte
	Version []byte

	Headers map[string]string
}

// NewRequest returns an empty request ready to be passed to Parse.
func NewRequest() *Request {
	return &Request{
		Headers: make(map[string]string),
	}
}

var requestPool = sync.Pool{
	New: func() any {
		return &Request{
			Method:  make([]byte, 0, 8),
			URL:     make([]byte, 0, 128),
			Version: make([]byte, 0, 8),
			Headers: make(map[string]string),
		}
	},
}

func AcquireRequest() *Request {
	return requestPool.Get().(*Request)
}

// Reset empties the request for reuse (capacity kept, map cleared)
func (r *Request) Reset() {
	r.Method = r.Method[:0]
	r.URL = r.URL[:0]
	r.Version = r.Version[:0]

	if r.Headers == nil {
		r.Headers = make(map[string]string)
		return
	}
	clear(r.Headers)
}

func ReleaseRequest(req *Request) {
	req.Reset()
	requestPool.Put(req)
}

// Header looks up a header by its exact name.
func (r *Request) Header(name string) (string, bool) {
	v, ok := r.Headers[name]
	return v, ok
}

// HeaderNames returns the header names in sorted order.
func (r *Request) HeaderNames() []string {
	names := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// setHeader stores a pair according to the duplicate policy.
func (r *Request) setHeader(key, value string, policy DuplicatePolicy) {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	if policy == KeepFirst {
		if _, exists := r.Headers[key]; exists {
			return
		}
	}
	r.Headers[key] = value
}
