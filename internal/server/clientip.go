package server

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientResolver works out which address a request came from. Forwarded headers are honoured
// only when the direct peer is inside one of the trusted proxy ranges.
type ClientResolver struct {
	trusted []netip.Prefix
}

// NewClientResolver accepts single addresses and CIDR ranges. Unparseable entries are skipped.
func NewClientResolver(trustedProxies []string) *ClientResolver {
	c := &ClientResolver{}
	for _, raw := range trustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if p, err := netip.ParsePrefix(raw); err == nil {
			c.trusted = append(c.trusted, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(raw); err == nil {
			c.trusted = append(c.trusted, netip.PrefixFrom(a.Unmap(), a.Unmap().BitLen()))
			continue
		}
		slog.Warn(LogMsgBadTrustedProxy, "value", raw)
	}
	return c
}

func (c *ClientResolver) isTrusted(host string) bool {
	a, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range c.trusted {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// IP returns the client address for r. Behind a trusted proxy this is the rightmost
// X-Forwarded-For hop, which is the one the proxy itself appended.
func (c *ClientResolver) IP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !c.isTrusted(peer) {
		return peer
	}
	fwd := r.Header.Get(HeaderForwardedFor)
	if fwd == "" {
		return peer
	}
	if i := strings.LastIndexByte(fwd, ','); i >= 0 {
		fwd = fwd[i+1:]
	}
	if hop := strings.TrimSpace(fwd); hop != "" {
		return hop
	}
	return peer
}
