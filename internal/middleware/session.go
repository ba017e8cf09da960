package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/ivens03/microservices-padoca/internal/session"
	"github.com/ivens03/microservices-padoca/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	// SessionHeader carries the session id for non-browser clients
	SessionHeader = "X-Session-ID"

	sessionIDKey     = "session_id"
	sessionKey       = "session"
	sessionCookieKey = "session_cookie"
)

// SessionResolver loads a live session by id
type SessionResolver interface {
	Current(ctx context.Context, id string) (*session.Session, error)
}

// IDTracker remembers the anonymous session ids the gateway handed out
type IDTracker interface {
	Known(id string) bool
	Track(id string)
}

// SessionConfig configures SessionMiddleware
type SessionConfig struct {
	Resolver   SessionResolver
	IDs        IDTracker
	CookieName string
	// OnExpired runs when a request arrives with an id whose session just expired
	OnExpired func(id string)
}

// SessionMiddleware gives every request a session id and attaches the
// logged-in session when there is one. A client id (header, then cookie) is
// only honoured when it belongs to a live session or was issued by the
// gateway; anything else gets a fresh id.
func SessionMiddleware(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)
			c.Set(sessionCookieKey, cfg.CookieName)

			id := c.Request().Header.Get(SessionHeader)
			if id == "" {
				if cookie, err := c.Cookie(cfg.CookieName); err == nil {
					id = cookie.Value
				}
			}

			if id != "" {
				sess, err := cfg.Resolver.Current(c.Request().Context(), id)
				switch {
				case err == nil:
					c.Set(sessionIDKey, id)
					c.Set(sessionKey, sess)
					c.Set("logger", log.With(zap.Uint("user_id", sess.UserID)))
					c.Response().Header().Set(SessionHeader, id)
					return next(c)
				case errors.Is(err, session.ErrExpired):
					log.Info("Session expired", zap.String("session_id", id))
					if cfg.OnExpired != nil {
						cfg.OnExpired(id)
					}
					// The id was ours; keep it for anonymous browsing
					cfg.IDs.Track(id)
				case session.IsMissing(err):
				default:
					log.Warn("Failed to load session", zap.String("session_id", id), zap.Error(err))
				}

				if !cfg.IDs.Known(id) {
					log.Warn("Ignoring session id not issued here")
					id = ""
				}
			}

			if id == "" {
				id = session.NewID()
				cfg.IDs.Track(id)
			}
			RotateSession(c, id)

			return next(c)
		}
	}
}

// RotateSession makes id the request's session id and hands it to the client
// in both the cookie and the response header
func RotateSession(c echo.Context, id string) {
	c.Set(sessionIDKey, id)
	c.Response().Header().Set(SessionHeader, id)

	name, _ := c.Get(sessionCookieKey).(string)
	if name == "" {
		return
	}
	if cookie, err := c.Cookie(name); err == nil && cookie.Value == id {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireSession rejects requests without a logged-in session
func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := CurrentSession(c); !ok {
			logger.FromContext(c).Warn("Request without session", zap.String("path", c.Path()))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
		}
		return next(c)
	}
}

// SessionID returns the browsing session id assigned to the request
func SessionID(c echo.Context) string {
	id, _ := c.Get(sessionIDKey).(string)
	return id
}

// CurrentSession returns the logged-in session, if any
func CurrentSession(c echo.Context) (*session.Session, bool) {
	sess, ok := c.Get(sessionKey).(*session.Session)
	return sess, ok && sess != nil
}

// SetSession attaches a session opened during the request
func SetSession(c echo.Context, sess *session.Session) {
	c.Set(sessionKey, sess)
}
