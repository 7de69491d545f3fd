// Package sessioncookie centralizes the visitor cookie that keys per-browser dashboard state.
package sessioncookie

import (
	"net/http"
	"strings"
	"time"
)

// Name is the canonical visitor cookie name.
const Name = "mvm_visitor"

// MaxAge keeps the visitor cookie for a week of idle time.
const MaxAge = 7 * 24 * time.Hour

// Read returns the trimmed visitor cookie value when present.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// Write sets the visitor cookie.
func Write(w http.ResponseWriter, visitorID string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    strings.TrimSpace(visitorID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(MaxAge / time.Second),
	})
}

// Clear expires the visitor cookie.
func Clear(w http.ResponseWriter) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
