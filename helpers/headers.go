package helpers

import (
	"net/http"
	"strings"
)

// HeaderXForwardedFor is the header carrying the chain of client addresses
// appended by each proxy hop.
const HeaderXForwardedFor = "X-Forwarded-For"

// hopByHopHeaders are connection-specific headers (RFC 7230 §6.1) that must not
// be relayed to the backend or back to the caller.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// CopyEndToEndHeaders copies all headers from src to dst except hop-by-hop
// headers and any header named in src's Connection header.
//
// Parameters: dst — destination header map (existing keys with the same name are overwritten); src — source header map (nil allowed — no-op).
//
// Called from service.Proxy when building the downstream request and when
// relaying the downstream response to the caller.
func CopyEndToEndHeaders(dst, src http.Header) {
	if src == nil {
		return
	}
	drop := make(map[string]bool, len(hopByHopHeaders))
	for _, h := range hopByHopHeaders {
		drop[h] = true
	}
	// Connection may name additional hop-by-hop headers.
	for _, v := range src.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				drop[http.CanonicalHeaderKey(name)] = true
			}
		}
	}
	for key, vals := range src {
		if drop[http.CanonicalHeaderKey(key)] {
			continue
		}
		dst[http.CanonicalHeaderKey(key)] = append([]string(nil), vals...)
	}
}

// AppendForwardedFor appends clientAddr (host only, port stripped if present)
// to the X-Forwarded-For header in h, comma-separated after any existing value.
//
// Parameters: h — headers of the outgoing downstream request; clientAddr — RemoteAddr of the original caller ("ip:port" or bare ip; empty string is a no-op).
//
// Called from service.Proxy before each forward attempt.
func AppendForwardedFor(h http.Header, clientAddr string) {
	if clientAddr == "" {
		return
	}
	host := clientAddr
	if i := strings.LastIndex(clientAddr, ":"); i > 0 && !strings.Contains(clientAddr[i:], "]") {
		host = clientAddr[:i]
	}
	if prior := h.Get(HeaderXForwardedFor); prior != "" {
		host = prior + ", " + host
	}
	h.Set(HeaderXForwardedFor, host)
}
