package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"golang.org/x/oauth2"

	"saveit/internal/config"
	"saveit/internal/middleware"
	"saveit/internal/models"
)

// UserUpserter stores users as they sign in.
type UserUpserter interface {
	UpsertUser(ctx context.Context, user *models.User) error
}

// devSeeder is implemented by stores that can populate sample data.
type devSeeder interface {
	SeedDevLinks(ctx context.Context, userID string) error
}

// AuthHandler handles OIDC authentication flows.
type AuthHandler struct {
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
	users        UserUpserter
	cfg          *config.Config
}

// NewAuthHandler creates a new auth handler with OIDC configuration.
func NewAuthHandler(ctx context.Context, cfg *config.Config, users UserUpserter) (*AuthHandler, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, err
	}

	oauth2Config := oauth2.Config{
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID})

	return &AuthHandler{
		provider:     provider,
		oauth2Config: oauth2Config,
		verifier:     verifier,
		users:        users,
		cfg:          cfg,
	}, nil
}

// Login initiates the OIDC login flow.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	state := generateState()

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	sess.Set("oauth_state", state)
	if next := c.Query("next"); isLocalPath(next) {
		sess.Set("redirect_after_login", next)
	}

	url := h.oauth2Config.AuthCodeURL(state)
	return c.Redirect().To(url)
}

// Callback handles the OIDC callback after authentication.
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	savedState, _ := sess.Get("oauth_state").(string)
	if savedState == "" || savedState != c.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	sess.Delete("oauth_state")

	// Exchange code for token
	oauth2Token, err := h.oauth2Config.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to exchange code")
	}

	// Extract and verify ID token
	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing id_token")
	}

	idToken, err := h.verifier.Verify(c.Context(), rawIDToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id_token")
	}

	claimsMap, err := h.claims(c.Context(), oauth2Token, idToken)
	if err != nil {
		return err
	}

	sub, _ := claimsMap["sub"].(string)
	email, _ := claimsMap["email"].(string)
	name, _ := claimsMap["name"].(string)
	picture, _ := claimsMap["picture"].(string)

	if sub == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing subject claim")
	}

	user := &models.User{
		Sub:     sub,
		Email:   email,
		Name:    name,
		Picture: picture,
	}
	if err := h.users.UpsertUser(c.Context(), user); err != nil {
		return err
	}
	if seeder, ok := h.users.(devSeeder); ok && h.cfg.IsDev() {
		if err := seeder.SeedDevLinks(c.Context(), user.ID.String()); err != nil {
			slog.Warn("failed to seed dev links", "user", user.ID, "error", err)
		}
	}

	// Store session
	sess.Set(middleware.SessionUserKey, sub)

	// Redirect to original URL if stored, otherwise home
	redirectURL := "/"
	if savedRedirect := sess.Get("redirect_after_login"); savedRedirect != nil {
		if url, ok := savedRedirect.(string); ok && isLocalPath(url) {
			redirectURL = url
		}
		sess.Delete("redirect_after_login")
	}

	return c.Redirect().To(redirectURL)
}

// Logout clears the user session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess != nil {
		sess.Destroy()
	}
	return c.Redirect().To("/")
}

// claims merges the ID token claims with the userinfo endpoint's, which
// win on conflict. Some providers only put the subject in the ID token.
func (h *AuthHandler) claims(ctx context.Context, token *oauth2.Token, idToken *oidc.IDToken) (map[string]any, error) {
	claimsMap := make(map[string]any)
	if err := idToken.Claims(&claimsMap); err != nil {
		return nil, err
	}

	userInfo, err := h.provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		slog.Warn("failed to fetch userinfo", "error", err)
		return claimsMap, nil
	}
	var userInfoClaims map[string]any
	if err := userInfo.Claims(&userInfoClaims); err == nil {
		for k, v := range userInfoClaims {
			claimsMap[k] = v
		}
	}

	if h.cfg.IsDev() {
		slog.Debug("OIDC claims received", "claims", claimsMap)
	}
	return claimsMap, nil
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// isLocalPath reports whether p is a same-site path safe to redirect to.
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}
