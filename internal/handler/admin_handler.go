package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"escrowfund/internal/escrow"
	"escrowfund/internal/service/project"
)

type AdminHandler struct {
	svc *project.Service
}

func NewAdminHandler(svc *project.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Credit handles POST /admin/credit — mints token balance onto an account so
// backers can fund in environments without a real token bridge.
func (h *AdminHandler) Credit(c *gin.Context) {
	var req struct {
		Token   string `json:"token"`
		Account string `json:"account"`
		Amount  int64  `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.svc.CreditBalance(c.Request.Context(),
		escrow.Identity(req.Token),
		escrow.Identity(req.Account),
		req.Amount,
	)
	if err != nil {
		status, code := mapError(err)
		c.JSON(status, gin.H{"error": code})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "credited"})
}

// Balance handles GET /admin/balance
func (h *AdminHandler) Balance(c *gin.Context) {
	token := c.Query("token")
	accountID := c.Query("account")
	if token == "" || accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and account are required"})
		return
	}

	amount, err := h.svc.Balance(c.Request.Context(), escrow.Identity(token), escrow.Identity(accountID))
	if err != nil {
		status, code := mapError(err)
		c.JSON(status, gin.H{"error": code})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "account": accountID, "amount": amount})
}
