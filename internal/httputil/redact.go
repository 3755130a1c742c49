package httputil

import "net/url"

// RedactedError formats a URL for inclusion in an error message with the
// password of any userinfo component replaced by "xxxxx" (url.URL.Redacted;
// the query string is left as is), the same treatment CheckResponse gives
// the request URL, for call sites (the request package) that build their
// own error messages instead of going through CheckResponse.
func RedactedError(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Redacted()
}
