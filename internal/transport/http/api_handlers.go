package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mkazancev/relaychat-server/internal/auth"
	"github.com/mkazancev/relaychat-server/internal/store"
)

// APIHandlers provides HTTP handlers for REST API endpoints.
type APIHandlers struct {
	authService *auth.Service
	store       store.Store
	log         *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(authService *auth.Service, st store.Store, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		authService: authService,
		store:       st,
		log:         logger,
	}
}

// SignupRequest represents the signup request body.
type SignupRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

// SigninRequest represents the signin request body.
type SigninRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is an account without its password hash.
type UserResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SigninResponse represents the signin response body.
type SigninResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MessageResponse is one record of the message log.
type MessageResponse struct {
	ID        int64     `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Body      string    `json:"body"`
	Seen      bool      `json:"seen"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toUserResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// Signup handles account creation.
// POST /api/signup
func (h *APIHandlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid signup request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "first name, last name, email and password are required"})
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "first name, last name, email and password are required"})
		case errors.Is(err, auth.ErrUserExists):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "user already exists"})
		default:
			h.log.Error().Err(err).Str("email", req.Email).Msg("failed to sign up user")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	h.log.Info().Str("user_id", user.ID).Msg("user signed up")
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Signin handles authentication.
// POST /api/signin
func (h *APIHandlers) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid signin request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "email and password are required"})
		return
	}

	token, user, err := h.authService.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "incorrect password"})
		default:
			h.log.Error().Err(err).Str("email", req.Email).Msg("failed to sign in user")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	h.log.Info().Str("user_id", user.ID).Msg("user signed in")
	c.JSON(http.StatusOK, SigninResponse{Token: token, User: toUserResponse(user)})
}

// ListUsers returns all accounts.
// GET /api/users
func (h *APIHandlers) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list users")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	c.JSON(http.StatusOK, resp)
}

// ListMessages returns the full message log in creation order. Used for
// initial sync and as the polling fallback when live delivery was missed.
// GET /api/messages
func (h *APIHandlers) ListMessages(c *gin.Context) {
	msgs, err := h.store.ListMessages(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	resp := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, MessageResponse{
			ID:        m.ID,
			From:      m.Sender,
			To:        m.Recipient,
			Body:      m.Body,
			Seen:      m.Seen,
			CreatedAt: m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}
