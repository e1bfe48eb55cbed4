package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/session"
)

type signupRequest struct {
	Email     string `json:"email" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// userResponse is the identity view returned to clients. The stored password
// never leaves the kv record.
type userResponse struct {
	ID              int64  `json:"id"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		IsAuthenticated: true,
	}
}

func signupHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email, firstName, lastName, and password are required"})
			return
		}

		u, err := deps.Session.Signup(c.Request.Context(), session.SignupInput{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Password:  req.Password,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, toUserResponse(*u))
	}
}

func loginHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		u, err := deps.Session.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, session.ErrUserNotFound) || errors.Is(err, session.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, toUserResponse(*u))
	}
}

func logoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps.Session.Logout(c.Request.Context())
		c.Status(http.StatusNoContent)
	}
}

func meHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := deps.Session.Current()
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.JSON(http.StatusOK, toUserResponse(u))
	}
}
