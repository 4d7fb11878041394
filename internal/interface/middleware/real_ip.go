package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP stores the client IP under "real_ip". Forwarding headers are only
// read when the direct peer is one of trustedProxies (IPs or CIDRs); then it
// prefers CF-Connecting-IP, the left-most X-Forwarded-For entry and
// X-Real-IP in that order. Otherwise the peer address is used as is.
func RealIP(trustedProxies []string) gin.HandlerFunc {
	nets := parseProxies(trustedProxies)
	return func(c *gin.Context) {
		c.Set("real_ip", realIP(c, nets))
		c.Next()
	}
}

func realIP(c *gin.Context, trusted []*net.IPNet) string {
	peer := peerIP(c)
	if !containsIP(trusted, peer) {
		return peer
	}

	candidates := []string{c.GetHeader("CF-Connecting-IP")}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		candidates = append(candidates, strings.SplitN(xff, ",", 2)[0])
	}
	candidates = append(candidates, c.GetHeader("X-Real-IP"))

	for _, raw := range candidates {
		if ip := net.ParseIP(strings.TrimSpace(raw)); ip != nil {
			return ip.String()
		}
	}
	return peer
}

// peerIP is the address of the TCP peer, ignoring every header.
func peerIP(c *gin.Context) string {
	addr := strings.TrimSpace(c.Request.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if ip := net.ParseIP(addr); ip != nil {
		return ip.String()
	}
	return ""
}

// Invalid entries are skipped; cmd/main validates the list through
// gin's SetTrustedProxies before this runs.
func parseProxies(list []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, p := range list {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			if ip := net.ParseIP(p); ip != nil {
				bits := 128
				if ip.To4() != nil {
					ip, bits = ip.To4(), 32
				}
				nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			}
			continue
		}
		if _, n, err := net.ParseCIDR(p); err == nil {
			nets = append(nets, n)
		}
	}
	return nets
}

func containsIP(nets []*net.IPNet, raw string) bool {
	ip := net.ParseIP(raw)
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
