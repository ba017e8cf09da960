package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/ivens03/microservices-padoca/internal/board"
	"github.com/ivens03/microservices-padoca/internal/cart"
	mid "github.com/ivens03/microservices-padoca/internal/middleware"
	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/ivens03/microservices-padoca/internal/session"
	"github.com/ivens03/microservices-padoca/pkg/logger"
	"github.com/ivens03/microservices-padoca/pkg/padoca"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProfileBackend reads and edits the logged-in user's profile
type ProfileBackend interface {
	Me(ctx context.Context, auth padoca.Auth) (*model.User, error)
	UpdateMe(ctx context.Context, auth padoca.Auth, update model.ProfileUpdate) (*model.User, error)
}

// AuthHandler serves login, logout and the profile
type AuthHandler struct {
	sessions *session.Manager
	profiles ProfileBackend
	carts    *cart.Store
	boards   *board.Registry
}

// NewAuthHandler creates the auth handler
func NewAuthHandler(sessions *session.Manager, profiles ProfileBackend, carts *cart.Store, boards *board.Registry) *AuthHandler {
	return &AuthHandler{sessions: sessions, profiles: profiles, carts: carts, boards: boards}
}

type profileResponse struct {
	User      model.User      `json:"usuario"`
	Views     []model.Surface `json:"views"`
	ExpiresAt time.Time       `json:"expiraEm"`
}

func newProfileResponse(sess *session.Session, user model.User) profileResponse {
	return profileResponse{User: user, Views: user.Role.Views(), ExpiresAt: sess.ExpiresAt}
}

// Login authenticates under a freshly issued session id. The anonymous cart
// moves to the new id; the previous id loses its board and any session it had.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)

	var creds model.Credentials
	if err := c.Bind(&creds); err != nil {
		log.Error("Invalid login request", zap.Error(err))
		return badRequest(c, "Invalid request data")
	}

	previousID := mid.SessionID(c)
	sess, err := h.sessions.Login(c.Request().Context(), session.NewID(), creds)
	if err != nil {
		return respondError(c, "login", err)
	}

	if previousID != "" {
		h.boards.Close(previousID)
		if err := h.sessions.Logout(c.Request().Context(), previousID); err != nil {
			log.Warn("Failed to drop previous session", zap.Error(err))
		}
	}
	h.carts.Move(previousID, sess.ID)
	mid.RotateSession(c, sess.ID)
	mid.SetSession(c, sess)

	log.Info("User logged in", zap.Uint("user_id", sess.UserID), zap.String("role", string(sess.Role)))
	return c.JSON(http.StatusOK, newProfileResponse(sess, sess.User()))
}

// Logout closes the board, drops the cart and forgets the session
func (h *AuthHandler) Logout(c echo.Context) error {
	id := mid.SessionID(c)
	h.boards.Close(id)
	h.carts.Discard(id)

	if err := h.sessions.Logout(c.Request().Context(), id); err != nil {
		return respondError(c, "logout", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the fresh profile and the views it unlocks
func (h *AuthHandler) Me(c echo.Context) error {
	log := logger.FromContext(c)
	sess, _ := mid.CurrentSession(c)

	user, err := h.profiles.Me(c.Request().Context(), sess)
	if err != nil {
		log.Warn("Falling back to stored profile", zap.Error(err))
		return c.JSON(http.StatusOK, newProfileResponse(sess, sess.User()))
	}
	if err := h.sessions.UpdateProfile(c.Request().Context(), sess, *user); err != nil {
		log.Warn("Failed to store refreshed profile", zap.Error(err))
	}
	return c.JSON(http.StatusOK, newProfileResponse(sess, *user))
}

// UpdateMe edits the profile. An omitted password is left unchanged.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	log := logger.FromContext(c)
	sess, _ := mid.CurrentSession(c)

	var update model.ProfileUpdate
	if err := c.Bind(&update); err != nil {
		log.Error("Invalid profile update", zap.Error(err))
		return badRequest(c, "Invalid request data")
	}
	if update.Role == "" {
		update.Role = sess.Role
	}

	user, err := h.profiles.UpdateMe(c.Request().Context(), sess, update)
	if err != nil {
		return respondError(c, "profile update", err)
	}
	if err := h.sessions.UpdateProfile(c.Request().Context(), sess, *user); err != nil {
		log.Warn("Failed to store updated profile", zap.Error(err))
	}

	log.Info("Profile updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, newProfileResponse(sess, *user))
}
