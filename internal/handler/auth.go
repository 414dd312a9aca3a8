package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/online-compiler/internal/auth"
	"github.com/sakif/online-compiler/internal/model"
	"github.com/sakif/online-compiler/internal/repository"
	"github.com/sakif/online-compiler/internal/service"
)

// AuthHandler serves both login paths: username/password registration and
// the GitHub OAuth flow. Either way the session ends up as a JWT in an
// HttpOnly cookie.
type AuthHandler struct {
	service *service.AuthService
	tokens  *auth.TokenService
	github  *auth.GitHubProvider // nil when GitHub OAuth isn't configured
	users   repository.UserRepository
	logger  *slog.Logger
}

func NewAuthHandler(
	service *service.AuthService,
	tokens *auth.TokenService,
	github *auth.GitHubProvider,
	users repository.UserRepository,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		service: service,
		tokens:  tokens,
		github:  github,
		users:   users,
		logger:  logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister processes POST /api/auth/register and logs the new account
// in immediately.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid request body",
		})
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password, req.FullName)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.issueSession(w, user.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin processes POST /api/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid request body",
		})
		return
	}

	user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.issueSession(w, user.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleLogout clears the session cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the authenticated user's profile. The route sits behind
// RequireAuth, so a missing context user means the token referenced a
// deleted account.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleGitHubLogin redirects the browser to GitHub's authorization page.
// A random state value in a short-lived cookie guards the callback against
// CSRF.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow: verify state, exchange the
// code, upsert the user, issue the session, and send the browser home.
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state check failed")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid OAuth state",
		})
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: authorization denied", slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "missing OAuth code",
		})
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "authentication failed",
		})
		return
	}

	user := &model.User{
		Username:  ghUser.Login,
		Email:     ghUser.Email,
		FullName:  ghUser.Name,
		GitHubID:  ghUser.ID,
		AvatarURL: ghUser.AvatarURL,
	}
	if err := h.users.UpsertGitHubUser(r.Context(), user); err != nil {
		h.logger.Error("auth callback: upsert failed",
			slog.Int64("githubID", ghUser.ID),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "authentication failed",
		})
		return
	}

	if err := h.issueSession(w, user.ID); err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// issueSession signs a JWT for userID and sets the session cookie.
func (h *AuthHandler) issueSession(w http.ResponseWriter, userID string) error {
	token, err := h.tokens.Generate(userID)
	if err != nil {
		h.logger.Error("failed to issue session", slog.String("error", err.Error()))
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int((30 * 60)), // matches the token lifetime
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
