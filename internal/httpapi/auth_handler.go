package httpapi

import (
	"net/http"

	"vietcart-be/internal/user"
	"vietcart-be/internal/utils"
)

type AuthHandler struct {
	users user.Service
}

func NewAuthHandler(users user.Service) *AuthHandler {
	return &AuthHandler{users: users}
}

type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID              int64                `json:"id"`
	Email           string               `json:"email"`
	FullName        *string              `json:"full_name,omitempty"`
	Role            user.Role            `json:"role"`
	TotalSpent      int64                `json:"total_spent"`
	OrderCount      int                  `json:"order_count"`
	MembershipLevel user.MembershipLevel `json:"membership_level"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		Role:            u.Role,
		TotalSpent:      u.TotalSpent,
		OrderCount:      u.OrderCount,
		MembershipLevel: u.MembershipLevel,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, token, err := h.users.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, authResponse{User: toUserResponse(u), Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, authResponse{User: toUserResponse(u), Token: token})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "authentication required")
		return
	}

	u, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, toUserResponse(u))
}
