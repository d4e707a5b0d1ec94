// SPDX-License-Identifier: MIT
package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// IPFilterMiddleware blocks clients in any blocked CIDR. When allowed is
// non-empty only clients inside one of its CIDRs get through. Entries that
// do not parse are skipped.
func IPFilterMiddleware(blocked, allowed []string) gin.HandlerFunc {
	blockedNets := parseCIDRs(blocked)
	allowedNets := parseCIDRs(allowed)

	return func(c *gin.Context) {
		clientIP := extractIP(c)
		if clientIP == nil {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		if containsIP(blockedNets, clientIP) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		if len(allowedNets) > 0 && !containsIP(allowedNets, clientIP) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}

func parseCIDRs(cidrs []string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		// A bare address means just that host
		if !strings.Contains(cidr, "/") {
			if ip := net.ParseIP(cidr); ip != nil {
				bits := 32
				if ip.To4() == nil {
					bits = 128
				}
				nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			}
			continue
		}
		if _, ipNet, err := net.ParseCIDR(cidr); err == nil {
			nets = append(nets, ipNet)
		}
	}
	return nets
}

func containsIP(nets []*net.IPNet, ip net.IP) bool {
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// extractIP parses the client address, honouring X-Forwarded-For
func extractIP(c *gin.Context) net.IP {
	return net.ParseIP(getClientIP(c))
}
