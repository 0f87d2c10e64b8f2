package guard

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jrsteele09/go-storefront-session/session"
	"github.com/rs/zerolog/log"
)

// SessionSource supplies the current session. *auth.Manager satisfies it.
type SessionSource interface {
	Session() session.Session
}

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the session that passed the guard
const ContextKeySession ContextKey = "session"

// FromContext returns the session stored by the guard middleware, or LoggedOut
func FromContext(ctx context.Context) session.Session {
	s, ok := ctx.Value(ContextKeySession).(session.Session)
	if !ok {
		return session.LoggedOut
	}
	return s
}

// Require guards a handler with a fixed policy
func Require(sessions SessionSource, p Policy) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			s := sessions.Session()
			serveDecision(w, r, next, s, CanAccess(s, p))
		}
	}
}

// Middleware guards a handler using the table entry for the request path
func (t *Table) Middleware(sessions SessionSource) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			s := sessions.Session()
			decision, _ := t.Decide(r.URL.Path, s)
			serveDecision(w, r, next, s, decision)
		}
	}
}

func serveDecision(w http.ResponseWriter, r *http.Request, next http.HandlerFunc, s session.Session, decision Decision) {
	if decision != Allow {
		log.Debug().Str("path", r.URL.Path).Str("decision", decision.String()).Msg("route guard redirect")
		http.Redirect(w, r, decision.Location(), http.StatusSeeOther)
		return
	}
	ctx := context.WithValue(r.Context(), ContextKeySession, s)
	next(w, r.WithContext(ctx))
}

// GinMiddleware guards gin routes using the table entry for the request path.
// The allowed session is available through c.Get(string(ContextKeySession)).
func (t *Table) GinMiddleware(sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Session()
		decision, _ := t.Decide(c.Request.URL.Path, s)
		if decision != Allow {
			c.Redirect(http.StatusSeeOther, decision.Location())
			c.Abort()
			return
		}
		c.Set(string(ContextKeySession), s)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ContextKeySession, s))
		c.Next()
	}
}
