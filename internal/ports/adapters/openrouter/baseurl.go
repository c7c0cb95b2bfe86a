package openrouter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/samber/lo"
)

const defaultBaseURL = "https://openrouter.ai"

// apiPath is appended to the base URL on every request, so the base URL
// itself must stay host-only.
const apiPath = "/api/v1/chat/completions"

var defaultAllowedHosts = []string{"openrouter.ai", "api.openrouter.ai"}

func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return defaultBaseURL
	}
	return baseURL
}

// ValidateBaseURL rejects any base URL that is not a bare https endpoint on
// an allow-listed host. Prompts carry transcript text, so requests must
// never be redirectable to an arbitrary host.
func ValidateBaseURL(baseURL string, allowedHosts []string) error {
	baseURL = normalizeBaseURL(baseURL)

	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid OPENROUTER_BASE_URL: %w", err)
	}

	reject := func(why string) error {
		return fmt.Errorf("invalid OPENROUTER_BASE_URL %q: %s", baseURL, why)
	}
	switch {
	case !u.IsAbs() || u.Host == "":
		return reject("absolute URL with host is required")
	case u.User != nil:
		return reject("userinfo is not allowed")
	case u.RawQuery != "" || u.Fragment != "":
		return reject("query and fragment are not allowed")
	case u.Path != "" && u.Path != "/":
		return reject("path is not allowed, " + apiPath + " is appended automatically")
	case !strings.EqualFold(u.Scheme, "https"):
		return reject("https is required")
	}

	host := strings.ToLower(u.Hostname())
	if !lo.Contains(allowHosts(allowedHosts), host) {
		return reject(fmt.Sprintf("host %q is not in OPENROUTER_ALLOWED_HOSTS", host))
	}
	return nil
}

// allowHosts cleans the configured allow-list down to bare lowercase
// hostnames, falling back to the default hosts when nothing usable remains.
func allowHosts(configured []string) []string {
	hosts := lo.FilterMap(configured, func(h string, _ int) (string, bool) {
		v := strings.ToLower(strings.TrimSpace(h))
		v = strings.TrimPrefix(v, "https://")
		v = strings.TrimPrefix(v, "http://")
		v = strings.Trim(v, "/")
		if i := strings.Index(v, ":"); i >= 0 {
			v = v[:i]
		}
		return v, v != ""
	})
	if len(hosts) == 0 {
		return defaultAllowedHosts
	}
	return hosts
}
