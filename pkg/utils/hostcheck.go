package utils

import (
	"fmt"
	"net"
	"net/url"
)

// CheckTargetHost rejects base URLs that resolve to loopback, private or
// link-local addresses so a registered site cannot point the publisher at
// internal infrastructure.
func CheckTargetHost(baseURL string) error {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid site URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("site URL has no host")
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return fmt.Errorf("failed to resolve site host %s: %w", host, err)
	}
	for _, ip := range ips {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			return fmt.Errorf("site host %s resolves to a disallowed address", host)
		}
	}
	return nil
}
