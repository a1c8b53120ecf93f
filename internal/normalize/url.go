// Package normalize holds the pure text transforms the deduplicator
// compares items with: URL canonicalization, title normalization and
// similarity, and content fingerprinting.
package normalize

import (
	"net/url"
	"strings"
)

// trackingParams are stripped from query strings before comparison.
// Any parameter with a "utm_" prefix is stripped as well.
var trackingParams = map[string]struct{}{
	"utm_source": {}, "utm_medium": {}, "utm_campaign": {},
	"utm_term": {}, "utm_content": {},
	"ref": {}, "source": {}, "fbclid": {}, "gclid": {}, "msclkid": {},
	"mc_cid": {}, "mc_eid": {}, "share": {}, "share_id": {}, "via": {}, "from": {},
}

// mirrorPrefixes are host prefixes that serve the same resource as the
// bare domain (mobile and AMP mirrors).
var mirrorPrefixes = []string{"www.", "amp.", "m.", "mobile."}

// CanonicalURL normalizes a URL so that two URLs referring to the same
// resource modulo tracking differences compare equal. It never fails:
// unparseable input falls back to lowercase + trim.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(raw)
	}

	host := stripMirrorPrefixes(strings.ToLower(u.Host))

	path := strings.TrimRight(u.EscapedPath(), "/")
	query := filterQuery(u.RawQuery)

	canonical := strings.ToLower(u.Scheme) + "://" + host + path
	if query != "" {
		canonical += "?" + query
	}
	return canonical
}

// stripMirrorPrefixes removes mirror prefixes until none apply, so stacked
// hosts like "www.m.example.com" reduce to the bare domain in one pass.
func stripMirrorPrefixes(host string) string {
	for {
		stripped := false
		for _, prefix := range mirrorPrefixes {
			if rest, ok := strings.CutPrefix(host, prefix); ok {
				host = rest
				stripped = true
				break
			}
		}
		if !stripped {
			return host
		}
	}
}

// filterQuery drops tracking parameters, preserving the order of the rest.
func filterQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			key = pair[:i]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		key = strings.ToLower(key)

		if _, tracked := trackingParams[key]; tracked {
			continue
		}
		if strings.HasPrefix(key, "utm_") {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}
