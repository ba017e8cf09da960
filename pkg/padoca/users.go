package padoca

import (
	"context"
	"net/http"

	"github.com/ivens03/microservices-padoca/internal/model"
)

// Login exchanges credentials for a bearer token and profile. Public endpoint.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.LoginResponse, error) {
	cl, err := c.jsonCall("login", http.MethodPost, "/auth/login", nil, creds)
	if err != nil {
		return nil, err
	}
	cl.needsAuth = false

	var resp model.LoginResponse
	if err := c.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me fetches the profile of the session's user
func (c *Client) Me(ctx context.Context, auth Auth) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, "get_profile", "/usuarios/me", auth, true, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMe edits the session user's profile
func (c *Client) UpdateMe(ctx context.Context, auth Auth, update model.ProfileUpdate) (*model.User, error) {
	var user model.User
	if err := c.send(ctx, "update_profile", http.MethodPut, "/usuarios/me", auth, update.Normalize(), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers fetches every user, employees included
func (c *Client) ListUsers(ctx context.Context, auth Auth) ([]model.User, error) {
	var users []model.User
	if err := c.get(ctx, "list_users", "/usuarios", auth, true, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser registers a user or employee
func (c *Client) CreateUser(ctx context.Context, auth Auth, req model.UserRequest) (*model.User, error) {
	var user model.User
	if err := c.send(ctx, "create_user", http.MethodPost, "/usuarios", auth, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SubmitFeedback posts a customer rating
func (c *Client) SubmitFeedback(ctx context.Context, auth Auth, req model.FeedbackRequest) (*model.Feedback, error) {
	var fb model.Feedback
	if err := c.send(ctx, "submit_feedback", http.MethodPost, "/feedbacks", auth, req, &fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

// ListFeedback fetches every rating
func (c *Client) ListFeedback(ctx context.Context, auth Auth) ([]model.Feedback, error) {
	var feedback []model.Feedback
	if err := c.get(ctx, "list_feedback", "/feedbacks", auth, true, &feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}
