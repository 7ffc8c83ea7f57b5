package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// OriginPolicy decides which browser origins may reach the server.
type OriginPolicy struct {
	exact    map[string]bool
	suffixes []string
}

// NewOriginPolicy builds a policy from exact origins and host suffixes such as
// ".example.com". Entries that do not parse as origins are ignored.
func NewOriginPolicy(origins, suffixes []string) *OriginPolicy {
	p := &OriginPolicy{exact: make(map[string]bool, len(origins))}
	for _, o := range origins {
		if o == "*" {
			p.exact["*"] = true
			continue
		}
		if norm, _, ok := NormalizeOrigin(o); ok {
			p.exact[norm] = true
		}
	}
	for _, s := range suffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		p.suffixes = append(p.suffixes, s)
	}
	return p
}

// Allow reports whether a request carrying the given Origin header may
// proceed. Requests without an Origin come from non-browser clients and are
// allowed.
func (p *OriginPolicy) Allow(originHeader string) bool {
	if strings.TrimSpace(originHeader) == "" {
		return true
	}
	if p.exact["*"] {
		return true
	}
	norm, hostname, ok := NormalizeOrigin(originHeader)
	if !ok {
		return false
	}
	if p.exact[norm] {
		return true
	}
	for _, s := range p.suffixes {
		if strings.HasSuffix(hostname, s) {
			return true
		}
	}
	return false
}

// CheckOrigin adapts the policy to websocket.Upgrader.
func (p *OriginPolicy) CheckOrigin(r *http.Request) bool {
	return p.Allow(r.Header.Get("Origin"))
}

// NormalizeOrigin returns scheme://host[:port] with the default port dropped,
// and the bare lowercase hostname.
func NormalizeOrigin(raw string) (origin string, hostname string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", "", false
	}
	if u.User != nil || u.RawQuery != "" || u.Fragment != "" {
		return "", "", false
	}
	if u.Path != "" && u.Path != "/" {
		return "", "", false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", "", false
	}

	hostname = strings.ToLower(u.Hostname())
	if hostname == "" {
		return "", "", false
	}

	host := hostname
	if strings.Contains(hostname, ":") {
		host = "[" + hostname + "]"
	}
	if rawPort := u.Port(); rawPort != "" {
		port, err := strconv.ParseUint(rawPort, 10, 16)
		if err != nil || port == 0 {
			return "", "", false
		}
		if !(scheme == "http" && port == 80) && !(scheme == "https" && port == 443) {
			host += ":" + rawPort
		}
	}
	return scheme + "://" + host, hostname, true
}

// CORS answers preflight requests and rejects disallowed origins.
func CORS(policy *OriginPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if !policy.Allow(origin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "origin not allowed"})
			return
		}

		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
