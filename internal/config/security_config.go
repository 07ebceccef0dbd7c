// config/security_config.go
package config

import "strings"

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// RouteSecurityConfig maps path prefixes to their required security level.
// The longest matching prefix wins.
var RouteSecurityConfig = map[string]SecurityLevel{
	"/healthz": SecurityPublic,
	"/api/":    SecurityAccess,
}

// GetSecurityLevel returns the security level for a request path
func GetSecurityLevel(path string) SecurityLevel {
	best := ""
	level := SecurityAccess
	for prefix, l := range RouteSecurityConfig {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(best) {
			best, level = prefix, l
		}
	}
	if best == "" {
		return SecurityPublic
	}
	return level
}
