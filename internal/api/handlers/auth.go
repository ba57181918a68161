package handlers

import (
	"net/http"
	"time"

	"github.com/dom/blog-api/internal/api/middleware"
	"github.com/dom/blog-api/internal/api/response"
	"github.com/dom/blog-api/internal/domain"
	"github.com/dom/blog-api/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	cookies     CookieSettings
}

// CookieSettings controls the attributes of the two token cookies.
type CookieSettings struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewAuthHandler(authService *service.AuthService, cookies CookieSettings) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User *domain.UserProfile `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, "User created successfully", user.Profile())
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	h.setTokenCookies(w, result)
	response.JSON(w, http.StatusOK, "Login successful", LoginResponse{User: result.User.Profile()})
}

// Logout only clears the cookies. Tokens already issued stay valid until
// they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie(middleware.AccessTokenCookie, "", -1))
	http.SetCookie(w, h.cookie(middleware.RefreshTokenCookie, "", -1))
	response.JSON(w, http.StatusOK, "User logged out", struct{}{})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		response.Error(w, r, middleware.ErrMissingCredential)
		return
	}

	response.JSON(w, http.StatusOK, "User profile fetched", user)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r, middleware.RefreshTokenCookie)

	result, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	h.setTokenCookies(w, result)
	response.JSON(w, http.StatusOK, "Token refreshed", RefreshResponse{AccessToken: result.AccessToken})
}

func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, result *service.AuthResult) {
	http.SetCookie(w, h.cookie(middleware.AccessTokenCookie, result.AccessToken, int(h.cookies.AccessTTL.Seconds())))
	http.SetCookie(w, h.cookie(middleware.RefreshTokenCookie, result.RefreshToken, int(h.cookies.RefreshTTL.Seconds())))
}

func (h *AuthHandler) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
