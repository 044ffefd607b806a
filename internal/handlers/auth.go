package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/wellbeam-hq/apiserver/config"
	"github.com/wellbeam-hq/apiserver/internal/services"
	"github.com/wellbeam-hq/apiserver/internal/store"
	"github.com/wellbeam-hq/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the token payload: standard registered claims plus identity
// facts used by authorization downstream.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	FullName string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
	// NameID is a fallback identity claim honored when Subject is absent.
	NameID string `json:"nameid,omitempty"`
}

// AuthHandler provides registration and login endpoints.
type AuthHandler struct {
	userService *services.UserService
	authConfig  *config.AuthConfig
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, authConfig *config.AuthConfig) *AuthHandler {
	return &AuthHandler{userService: userService, authConfig: authConfig}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, authConfig *config.AuthConfig) {
	handler := NewAuthHandler(userService, authConfig)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
}

// RequireAuth verifies the bearer token and injects the verified claims
// into the request context.
func RequireAuth(authConfig *config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := parseClaims(tokenString, authConfig)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), contextClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireManager rejects callers whose verified role is not Manager.
// Runs after RequireAuth; a valid token with the wrong role is 403, not 401.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := claimsFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if claims.Role != types.RoleManager {
			writeError(w, http.StatusForbidden, "manager access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Register creates a new account and returns a token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	role, ok := types.ParseRole(req.Role)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user, err := h.userService.Create(r.Context(), types.User{
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         role,
		PasswordHash: string(hashed),
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := IssueToken(user, h.authConfig)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, FullName: user.FullName, Role: user.Role})
}

// Login verifies credentials and returns a token. Unknown, inactive and
// wrong-password cases are indistinguishable to the caller.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := IssueToken(user, h.authConfig)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, FullName: user.FullName, Role: user.Role})
}

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token    string     `json:"token"`
	FullName string     `json:"fullName"`
	Role     types.Role `json:"role"`
}

// IssueToken signs a time-boxed token for the verified user.
func IssueToken(user types.User, cfg *config.AuthConfig) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenTTL)),
		},
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

func parseClaims(tokenString string, cfg *config.AuthConfig) (AuthClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
	)
	if err != nil {
		return AuthClaims{}, err
	}
	if !token.Valid {
		return AuthClaims{}, errors.New("invalid token")
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		subject = strings.TrimSpace(claims.NameID)
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return AuthClaims{}, errors.New("invalid subject")
	}

	role, ok := types.ParseRole(claims.Role)
	if !ok {
		return AuthClaims{}, errors.New("invalid role claim")
	}

	return AuthClaims{
		UserID: userID,
		Email:  claims.Email,
		Name:   claims.FullName,
		Role:   role,
	}, nil
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
