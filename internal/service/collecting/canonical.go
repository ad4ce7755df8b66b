package collecting

import (
	"net"
	"net/url"
	"strings"
)

var trackingParams = map[string]struct{}{
	"si":             {},
	"feature":        {},
	"pp":             {},
	"fbclid":         {},
	"gclid":          {},
	"igshid":         {},
	"igsh":           {},
	"is_from_webapp": {},
	"sender_device":  {},
	"_r":             {},
	"_t":             {},
}

var hostPrefixes = []string{"www.", "m.", "mobile."}

// CanonicalURL maps a video URL onto the form used as its deduplication key:
// https scheme, lower-case host without www/m prefixes or a default port, no
// fragment, no tracking parameters, sorted query and no trailing slash.
// YouTube short links, shorts and embeds collapse onto the watch URL. The
// second result is false when raw is not an absolute http(s) URL.
func CanonicalURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}

	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "http", "https":
	default:
		return "", false
	}

	host := stripHostPrefix(strings.ToLower(u.Hostname()))

	if id, ok := youTubeVideoID(host, u); ok {
		return "https://youtube.com/watch?v=" + url.QueryEscape(id), true
	}

	query := u.Query()
	for key := range query {
		if isTrackingParam(key) {
			query.Del(key)
		}
	}

	path := strings.TrimRight(u.EscapedPath(), "/")

	out := "https://" + hostPort(host, scheme, u.Port()) + path
	if encoded := query.Encode(); encoded != "" {
		out += "?" + encoded
	}
	return out, true
}

// stripHostPrefix drops one www/m/mobile label as long as at least two
// labels remain, so m.com stays m.com.
func stripHostPrefix(host string) string {
	for _, prefix := range hostPrefixes {
		rest, ok := strings.CutPrefix(host, prefix)
		if ok && strings.Contains(rest, ".") {
			return rest
		}
	}
	return host
}

// hostPort keeps a port unless it is the default one for scheme.
func hostPort(host, scheme, port string) string {
	if port == "" || (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		if strings.Contains(host, ":") {
			return "[" + host + "]"
		}
		return host
	}
	return net.JoinHostPort(host, port)
}

func isTrackingParam(key string) bool {
	key = strings.ToLower(key)
	if strings.HasPrefix(key, "utm_") {
		return true
	}
	_, ok := trackingParams[key]
	return ok
}

func youTubeVideoID(host string, u *url.URL) (string, bool) {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch host {
	case "youtu.be":
		if segments[0] != "" {
			return segments[0], true
		}
	case "youtube.com", "music.youtube.com":
		if len(segments) >= 2 {
			switch segments[0] {
			case "shorts", "embed", "live", "v":
				return segments[1], true
			}
		}
		if segments[0] == "watch" {
			if id := u.Query().Get("v"); id != "" {
				return id, true
			}
		}
	}
	return "", false
}
