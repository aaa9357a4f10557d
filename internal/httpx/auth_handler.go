package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/justyn/travelmap-api/internal/users"
)

type AuthHandler struct {
	Users *users.Repo
}

func (h *AuthHandler) Register(r *chi.Mux) {
	r.Post("/api/auth/register", h.register)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/wechat", h.wechat)
}

type registerReq struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Nickname *string `json:"nickname"`
}

// loginData is what every login variant hands back. The token is a throwaway
// session id, not a credential store — hardening auth is out of scope here.
type loginData struct {
	UserID    int64   `json:"user_id"`
	Nickname  *string `json:"nickname"`
	AvatarURL *string `json:"avatar_url"`
	Token     string  `json:"token"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Password = strings.TrimSpace(req.Password)
	if req.Username == "" || req.Password == "" {
		writeErr(w, http.StatusBadRequest, "username and password are required")
		return
	}

	id, err := h.Users.Register(r.Context(), users.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Phone:    req.Phone,
		Email:    req.Email,
		Nickname: req.Nickname,
	})
	if errors.Is(err, users.ErrUsernameTaken) {
		writeErr(w, http.StatusBadRequest, "username already taken")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "register failed")
		return
	}
	writeData(w, map[string]any{"user_id": id})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Password = strings.TrimSpace(req.Password)
	if req.Username == "" || req.Password == "" {
		writeErr(w, http.StatusBadRequest, "username and password are required")
		return
	}

	u, err := h.Users.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, users.ErrBadCredentials) {
		writeErr(w, http.StatusUnauthorized, "wrong username or password")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeData(w, loginData{
		UserID:    u.ID,
		Nickname:  u.Nickname,
		AvatarURL: u.AvatarURL,
		Token:     uuid.NewString(),
	})
}

func (h *AuthHandler) wechat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Code == "" {
		writeErr(w, http.StatusBadRequest, "code is required")
		return
	}

	u, err := h.Users.WechatLogin(r.Context(), req.Code)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "wechat login failed")
		return
	}
	writeData(w, loginData{
		UserID:    u.ID,
		Nickname:  u.Nickname,
		AvatarURL: u.AvatarURL,
		Token:     uuid.NewString(),
	})
}
