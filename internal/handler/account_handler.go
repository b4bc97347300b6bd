package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"escrowfund/internal/service/account"
)

type AccountHandler struct {
	svc *account.Service
}

func NewAccountHandler(svc *account.Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

type credentialsRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

// Register handles POST /register
func (h *AccountHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Identity == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.svc.Register(c.Request.Context(), req.Identity, req.Password); err != nil {
		status, code := mapError(err)
		c.JSON(status, gin.H{"error": code})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"identity": req.Identity})
}

// Login handles POST /login
func (h *AccountHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.Identity, req.Password)
	if err != nil {
		status, code := mapError(err)
		c.JSON(status, gin.H{"error": code})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
