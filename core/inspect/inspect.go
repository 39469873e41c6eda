// Package inspect decodes the values of well-known request headers for
// reports. It never changes what the parser stored.
package inspect

import (
	"net"
	nethttp "net/http"
	"strconv"

	"github.com/searchktools/headparse/core/http"
	"github.com/vfaronov/httpheader"
)

// Product is one User-Agent token.
type Product struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// Hop is one Via or Forwarded element.
type Hop struct {
	Proto string `json:"proto,omitempty"`
	By    string `json:"by,omitempty"`
	For   string `json:"for,omitempty"`
	Host  string `json:"host,omitempty"`
}

// Summary holds the decoded forms of the headers this package knows.
type Summary struct {
	UserAgent   []Product         `json:"user_agent,omitempty"`
	Via         []Hop             `json:"via,omitempty"`
	Forwarded   []Hop             `json:"forwarded,omitempty"`
	IfNoneMatch []string          `json:"if_none_match,omitempty"`
	Prefer      map[string]string `json:"prefer,omitempty"`
}

// Empty reports whether no known header was present.
func (s Summary) Empty() bool {
	return len(s.UserAgent) == 0 && len(s.Via) == 0 && len(s.Forwarded) == 0 &&
		len(s.IfNoneMatch) == 0 && len(s.Prefer) == 0
}

// Summarize decodes the known headers of req.
func Summarize(req *http.Request) Summary {
	h := toHeader(req)

	var s Summary
	for _, p := range httpheader.UserAgent(h) {
		s.UserAgent = append(s.UserAgent, Product{Name: p.Name, Version: p.Version, Comment: p.Comment})
	}
	for _, v := range httpheader.Via(h) {
		s.Via = append(s.Via, Hop{Proto: v.ReceivedProto, By: v.ReceivedBy})
	}
	for _, f := range httpheader.Forwarded(h) {
		s.Forwarded = append(s.Forwarded, Hop{
			Proto: f.Proto,
			By:    nodeString(f.By),
			For:   nodeString(f.For),
			Host:  f.Host,
		})
	}
	for _, tag := range httpheader.IfNoneMatch(h) {
		if tag == httpheader.AnyTag {
			s.IfNoneMatch = append(s.IfNoneMatch, "*")
			continue
		}
		if tag.Weak {
			s.IfNoneMatch = append(s.IfNoneMatch, "W/"+tag.Opaque)
			continue
		}
		s.IfNoneMatch = append(s.IfNoneMatch, tag.Opaque)
	}
	if prefs := httpheader.Prefer(h); len(prefs) > 0 {
		s.Prefer = make(map[string]string, len(prefs))
		for name, pref := range prefs {
			s.Prefer[name] = pref.Value
		}
	}

	return s
}

// toHeader copies the parsed pairs into a net/http header, which
// canonicalizes names as httpheader expects.
func toHeader(req *http.Request) nethttp.Header {
	h := make(nethttp.Header, len(req.Headers))
	for _, name := range req.HeaderNames() {
		h.Add(name, req.Headers[name])
	}
	return h
}

func nodeString(n httpheader.Node) string {
	switch {
	case n.IP != nil && n.Port != 0:
		return net.JoinHostPort(n.IP.String(), strconv.Itoa(n.Port))
	case n.IP != nil:
		return n.IP.String()
	case n.ObfuscatedNode != "":
		return n.ObfuscatedNode
	default:
		return ""
	}
}
