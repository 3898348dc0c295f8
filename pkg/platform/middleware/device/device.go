package device

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"healthbridge/pkg/requestcontext"
)

const unknownDevice = "Unknown Device"

// Device labels the caller's device from the User-Agent already placed in
// context by the metadata middleware. Register it after metadata.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ua := requestcontext.UserAgent(ctx); ua != "" {
			ctx = requestcontext.WithDevice(ctx, Label(ua))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Label returns "Browser on OS" (e.g. "Chrome on macOS"), or the mobile
// platform in place of the OS for phones.
func Label(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return unknownDevice
	}

	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Bot() {
		return strings.TrimSpace("Bot " + browser)
	}
	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return browser + " on " + os
}
