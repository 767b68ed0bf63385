package request

import "strings"

type ClientType string

const (
	ClientWeb    ClientType = "web"
	ClientMobile ClientType = "mobile"
	ClientAPI    ClientType = "api"
)

// ResolveClientType decides how tokens are delivered: web clients get
// HttpOnly cookies, everything else gets tokens in the response body.
// The X-Client-Type header wins; the User-Agent is a fallback for
// browsers that do not send it.
func ResolveClientType(header, userAgent string) ClientType {
	switch strings.ToLower(strings.TrimSpace(header)) {
	case "web":
		return ClientWeb
	case "mobile":
		return ClientMobile
	case "api":
		return ClientAPI
	}

	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "mozilla") || strings.Contains(ua, "chrome") || strings.Contains(ua, "safari") {
		return ClientWeb
	}

	return ClientAPI
}

func IsWebClient(ct ClientType) bool {
	return ct == ClientWeb
}
