// Package auth implements the session gate guarding every dashboard route.
//
// There is a single configured identity. Sessions live in a signed cookie;
// nothing is persisted server-side, so a process restart logs everyone out.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nihilentropy-117/Web-Controller/internal/ctxlog"
)

const (
	sessionName   = "session"
	sessionMaxAge = 3600
)

// Gate verifies credentials against the one configured identity and tracks
// the authenticated flag in a cookie-bound session.
type Gate struct {
	store        *sessions.CookieStore
	username     string
	passwordHash []byte
}

// NewGate builds a Gate. The secret signs the session cookie; passwordHash
// must be a bcrypt hash of the account password.
func NewGate(secret, username string, passwordHash []byte) *Gate {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Gate{store: store, username: username, passwordHash: passwordHash}
}

// Verify checks a submitted credential pair. Both comparisons run in
// constant time regardless of which one mismatches.
func (g *Gate) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)) == nil
	return userOK && passOK
}

// Login transitions the request's session to Authenticated.
func (g *Gate) Login(w http.ResponseWriter, r *http.Request, username string) error {
	session, _ := g.store.Get(r, sessionName)
	session.Values["authenticated"] = true
	session.Values["username"] = username
	return session.Save(r, w)
}

// Logout clears the session, transitioning back to Anonymous.
func (g *Gate) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := g.store.Get(r, sessionName)
	session.Values = map[any]any{}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// Authenticated reports whether the request carries a valid logged-in session.
func (g *Gate) Authenticated(r *http.Request) bool {
	session, err := g.store.Get(r, sessionName)
	if err != nil {
		return false
	}
	flag, ok := session.Values["authenticated"].(bool)
	return ok && flag
}

// Username returns the logged-in identity, if any.
func (g *Gate) Username(r *http.Request) string {
	session, err := g.store.Get(r, sessionName)
	if err != nil {
		return ""
	}
	name, _ := session.Values["username"].(string)
	return name
}

// Require is the gate middleware. Unauthenticated API calls get a
// structured 401 JSON body; unauthenticated page loads get redirected to
// the login form.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.Authenticated(r) {
			next.ServeHTTP(w, r)
			return
		}

		ctxlog.FromContext(r.Context()).Debug("Rejecting unauthenticated request.", "path", r.URL.Path)
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   "authentication required",
			})
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
}
