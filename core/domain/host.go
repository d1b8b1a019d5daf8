// ABOUTME: Host extraction for ad links and displayed links
// ABOUTME: Derives the Domain attribute of an AdRecord, failing open to an empty string

package domain

import (
	"net"
	"net/url"
	"strings"
)

// ExtractDomain returns the lower-cased host component of a link or displayed
// link. Links without a scheme ("www.example.com/shoes") are accepted. An
// unparsable value yields "". A bare domain is returned unchanged.
func ExtractDomain(link string) string {
	link = strings.TrimSpace(link)
	// displayed links look like "www.example.com › shoes"
	if i := strings.IndexAny(link, " \t"); i >= 0 {
		link = link[:i]
	}
	if link == "" {
		return ""
	}

	if !strings.Contains(link, "://") {
		link = "//" + strings.TrimPrefix(link, "//")
	}

	u, err := url.Parse(link)
	if err != nil {
		return ""
	}

	host := u.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(strings.ToLower(host), ".")
}
