package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"freeskill/internal/middleware"
	"freeskill/internal/services"
)

// RefreshTokenCookie is the cookie carrying the refresh token.
const RefreshTokenCookie = "refreshToken"

// CookieConfig controls the session cookies set on login and refresh.
type CookieConfig struct {
	Secure        bool
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// AuthHandler handles HTTP requests for accounts and sessions.
type AuthHandler struct {
	authService  *services.AuthService
	tokenService *services.TokenService
	cookies      CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokenService *services.TokenService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
		cookies:      cookies,
	}
}

// RegisterRoutes registers the user routes. auth guards the routes acting on the caller.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	users := router.Group("/users")
	users.Post("/register", h.HandleRegister)
	users.Post("/login", h.HandleLogin)
	users.Post("/refresh-token", h.HandleRefreshToken)

	users.Post("/logout", auth, h.HandleLogout)
	users.Get("/me", auth, h.HandleCurrentUser)
	users.Put("/me", auth, h.HandleUpdateProfile)
	users.Delete("/me", auth, h.HandleDeleteAccount)
	users.Get("/", auth, h.HandleListUsers)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, user, "User registered successfully.")
}

// HandleLogin verifies credentials and starts a session.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := bind(c, &req); err != nil {
		return err
	}
	user, pair, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	h.setSessionCookies(c, pair)
	return respond(c, fiber.StatusOK, fiber.Map{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "User logged in successfully.")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// HandleRefreshToken exchanges the refresh token for a new pair. The cookie is
// preferred; API clients may send the token in the body instead.
func (h *AuthHandler) HandleRefreshToken(c *fiber.Ctx) error {
	token := c.Cookies(RefreshTokenCookie)
	if token == "" && len(c.Body()) > 0 {
		var req refreshRequest
		if err := c.BodyParser(&req); err == nil {
			token = req.RefreshToken
		}
	}
	// Cookies are left untouched when the refresh fails.
	pair, err := h.tokenService.Refresh(c.UserContext(), token)
	if err != nil {
		return err
	}
	h.setSessionCookies(c, pair)
	return respond(c, fiber.StatusOK, pair, "Access token refreshed.")
}

// HandleLogout ends the caller's session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.CurrentUser(c).ID); err != nil {
		return err
	}
	h.clearSessionCookies(c)
	return respond(c, fiber.StatusOK, fiber.Map{}, "User logged out.")
}

// HandleCurrentUser returns the caller's account.
func (h *AuthHandler) HandleCurrentUser(c *fiber.Ctx) error {
	user, err := h.authService.CurrentUser(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, user, "User fetched successfully.")
}

// HandleUpdateProfile changes the caller's username, full name or email.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req services.ProfileInput
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.authService.UpdateProfile(c.UserContext(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, user, "User updated successfully.")
}

// HandleDeleteAccount deletes the caller with their courses and videos.
func (h *AuthHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	if err := h.authService.DeleteAccount(c.UserContext(), middleware.CurrentUser(c).ID); err != nil {
		return err
	}
	h.clearSessionCookies(c)
	return respond(c, fiber.StatusOK, fiber.Map{}, "User deleted successfully.")
}

// HandleListUsers lists every account.
func (h *AuthHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, users, "Users fetched successfully.")
}

func (h *AuthHandler) setSessionCookies(c *fiber.Ctx, pair services.TokenPair) {
	now := time.Now()
	c.Cookie(h.cookie(middleware.AccessTokenCookie, pair.AccessToken, now.Add(h.cookies.AccessExpiry)))
	c.Cookie(h.cookie(RefreshTokenCookie, pair.RefreshToken, now.Add(h.cookies.RefreshExpiry)))
}

func (h *AuthHandler) clearSessionCookies(c *fiber.Ctx) {
	expired := time.Unix(0, 0)
	c.Cookie(h.cookie(middleware.AccessTokenCookie, "", expired))
	c.Cookie(h.cookie(RefreshTokenCookie, "", expired))
}

func (h *AuthHandler) cookie(name, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
