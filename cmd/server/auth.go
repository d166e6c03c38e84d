package main

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"
)

const sessionCookieName = "expense_session"

type authService struct {
	email         string
	passwordHash  string
	sessionSecret []byte
}

// newAuthService signs sessions with sessionSecret. When login is enabled
// and no secret is configured, a random per-process key is used instead, so
// sessions do not survive a restart.
func newAuthService(email, password, sessionSecret string) *authService {
	a := &authService{email: email, sessionSecret: []byte(sessionSecret)}
	if password != "" {
		a.passwordHash = hashPassword(password)
	}
	if a.enabled() && len(a.sessionSecret) == 0 {
		a.sessionSecret = randomSecret()
	}
	return a
}

func randomSecret() []byte {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("read random session secret: " + err.Error())
	}
	return secret
}

// enabled reports whether credentials are configured; without them every
// route is open.
func (a *authService) enabled() bool {
	return a.email != "" && a.passwordHash != ""
}

func (a *authService) validateCredentials(email, password string) bool {
	if !a.enabled() {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(email)), []byte(strings.ToLower(a.email))) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(hashPassword(password)), []byte(a.passwordHash)) == 1
	return emailOK && passwordOK
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (a *authService) createSessionValue(email string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(email))
	mac := hmac.New(sha256.New, a.sessionSecret)
	_, _ = mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))
	return payload + "." + signature
}

func (a *authService) verifySessionValue(value string) (string, bool) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok || strings.Contains(signature, ".") {
		return "", false
	}

	mac := hmac.New(sha256.New, a.sessionSecret)
	_, _ = mac.Write([]byte(payload))
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(provided, expected) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil || len(decoded) == 0 {
		return "", false
	}

	return string(decoded), true
}

func (a *authService) setSessionCookie(w http.ResponseWriter, email string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    a.createSessionValue(email),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *authService) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *authService) isAuthenticated(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}

	_, ok := a.verifySessionValue(cookie.Value)
	return ok
}
