package request

import "strings"

const (
	ClientWeb    = "WEB"
	ClientMobile = "MOBILE"
	ClientAPI    = "API"
)

// ResolveClientType menentukan jenis client dari header eksplisit atau User-Agent.
// Header X-Client-Type selalu menang; sisanya tebakan dari User-Agent.
func ResolveClientType(header, userAgent string) string {
	switch strings.ToUpper(strings.TrimSpace(header)) {
	case ClientWeb:
		return ClientWeb
	case ClientMobile:
		return ClientMobile
	case ClientAPI:
		return ClientAPI
	}

	if strings.Contains(userAgent, "Mozilla") {
		return ClientWeb
	}

	return ClientAPI
}

// IsWebClient: web client dapat token via HttpOnly cookie, bukan body.
func IsWebClient(clientType string) bool {
	return clientType == ClientWeb
}
