package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nikolayk812/bookcart/internal/domain"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type PasswordReset struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (s Session) Auth() domain.Auth {
	if s.Token == "" || s.User.ID == "" {
		return domain.Anonymous()
	}

	user := s.User
	return domain.Auth{User: &user, IsAuthenticated: true}
}

func (c *Client) Login(ctx context.Context, creds Credentials) (Session, error) {
	var session Session
	_, err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: creds}, &session)
	return session, err
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (domain.User, error) {
	var data struct {
		User domain.User `json:"user"`
	}
	_, err := c.do(ctx, request{method: http.MethodPost, path: "/auth/signup", body: req}, &data)
	return data.User, err
}

// ResendVerification returns the backend's message on success.
func (c *Client) ResendVerification(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}
	env, err := c.do(ctx, request{method: http.MethodPost, path: "/auth/resend-verification", body: body}, nil)
	return env.Message, err
}

func (c *Client) VerifyEmail(ctx context.Context, token string) (string, error) {
	env, err := c.do(ctx, request{method: http.MethodGet, path: "/auth/verify-email/" + url.PathEscape(token)}, nil)
	return env.Message, err
}

func (c *Client) ResetPassword(ctx context.Context, token string, reset PasswordReset) (Session, error) {
	var session Session
	_, err := c.do(ctx, request{method: http.MethodPatch, path: "/auth/resetPassword/" + url.PathEscape(token), body: reset}, &session)
	return session, err
}

func (c *Client) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (domain.User, error) {
	var data struct {
		User domain.User `json:"user"`
	}
	_, err := c.do(ctx, request{method: http.MethodPatch, path: "/auth/update-profile/" + url.PathEscape(userID), body: update}, &data)
	return data.User, err
}
