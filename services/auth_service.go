//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"

	"filedrop/auth"
	"filedrop/errors"
	"filedrop/repositories"
	"filedrop/transport"
)

type IAuthService interface {
	Login(ctx context.Context, username, password string) (auth.User, error)
	Register(ctx context.Context, username, password string) error
	Logout() error
	CurrentUser() (auth.User, error)
}

type AuthService struct {
	api         *transport.Client
	routes      Routes
	credentials repositories.ICredentialRepository
	log         *slog.Logger
}

func NewAuthService(api *transport.Client, routes Routes, credentials repositories.ICredentialRepository, log *slog.Logger) IAuthService {
	return &AuthService{api: api, routes: routes, credentials: credentials, log: log}
}

// tokenResponse is the login reply: {token, tokenType}.
type tokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
}

func (s *AuthService) Login(ctx context.Context, username, password string) (auth.User, error) {
	credentials := auth.Credentials{Username: username, Password: password}

	// 1. Validate shape before any network traffic.
	if err := auth.ValidateLogin(credentials); err != nil {
		return auth.User{}, err
	}

	// 2. Exchange credentials for a bearer token.
	resp, err := s.api.PostJSON(ctx, s.routes.Login, credentials)
	if err != nil {
		return auth.User{}, err
	}
	var token tokenResponse
	if err = resp.Decode(&token); err != nil {
		return auth.User{}, fmt.Errorf("decoding login response: %w", err)
	}
	if token.Token == "" {
		return auth.User{}, fmt.Errorf("login response carries no token")
	}

	// 3. Persist; every later request reads it from the store.
	if err = s.credentials.SetToken(token.Token); err != nil {
		return auth.User{}, fmt.Errorf("persisting credential: %w", err)
	}

	user, err := auth.ParseUser(token.Token)
	if err != nil {
		// A token the server accepts but the client cannot read is still a
		// valid session; fall back to the name the user typed.
		user = auth.User{Username: username}
	}
	s.log.Info("signed in", "username", user.Username)
	return user, nil
}

func (s *AuthService) Register(ctx context.Context, username, password string) error {
	credentials := auth.Credentials{Username: username, Password: password}
	if err := auth.ValidateRegister(credentials); err != nil {
		return err
	}
	// The register endpoint answers with an empty body on success.
	if _, err := s.api.PostJSON(ctx, s.routes.Register, credentials); err != nil {
		return err
	}
	s.log.Info("account registered", "username", username)
	return nil
}

// Logout is client-side only: the JWT is stateless, so destroying the
// persisted credential is the whole operation.
func (s *AuthService) Logout() error {
	return s.credentials.ClearToken()
}

func (s *AuthService) CurrentUser() (auth.User, error) {
	token, ok := s.credentials.Token()
	if !ok {
		return auth.User{}, errors.ErrTokenMissing
	}
	return auth.ParseUser(token)
}
