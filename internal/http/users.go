package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"outreach-records/internal/domain"
	"outreach-records/internal/service"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	Address  string `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// self sign-up: the new account is its own creator
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Email:    email,
		Password: req.Password,
		Name:     req.Name,
		Contact:  req.Contact,
		Address:  req.Address,
	}, email)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user.ToJSON())
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.respondWithToken(c, user)
}

func (h *Handler) respondWithToken(c *gin.Context, user *domain.User) {
	token, expires, err := h.tokens.Issue(user)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": domain.FormatTime(expires),
		"user":       user.ToJSON(),
	})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), userIDFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.ToJSON())
}

func (h *Handler) updateMe(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userIDFrom(c), service.ProfileInput{
		Name:    req.Name,
		Contact: req.Contact,
		Address: req.Address,
	}, actorFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.ToJSON())
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJSONList(users))
}

func (h *Handler) deleteUser(c *gin.Context) {
	id := c.Param("id")
	if id != userIDFrom(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot delete another account"})
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
