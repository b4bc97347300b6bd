package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"escrowfund/internal/escrow"
	"escrowfund/internal/service/project"
)

type EscrowHandler struct {
	svc    *project.Service
	logger *zap.Logger
}

func NewEscrowHandler(svc *project.Service, logger *zap.Logger) *EscrowHandler {
	return &EscrowHandler{
		svc:    svc,
		logger: logger,
	}
}

func (h *EscrowHandler) fail(c *gin.Context, err error) {
	status, code := mapError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Escrow operation failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": code})
}

// Initialize handles POST /escrow/initialize
func (h *EscrowHandler) Initialize(c *gin.Context) {
	var req struct {
		Creator    string                 `json:"creator"`
		Token      string                 `json:"token"`
		Goal       int64                  `json:"goal"`
		Deadline   uint64                 `json:"deadline"`
		Milestones []escrow.MilestoneSpec `json:"milestones"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.svc.Initialize(c.Request.Context(),
		escrow.Identity(req.Creator),
		escrow.Identity(req.Token),
		req.Goal,
		req.Deadline,
		req.Milestones,
	)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "initialized"})
}

// Fund handles POST /escrow/fund. The backer is the authenticated identity.
func (h *EscrowHandler) Fund(c *gin.Context) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	backer := escrow.Identity(c.GetString("identity"))
	if err := h.svc.Fund(c.Request.Context(), backer, req.Amount); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "funded", "amount": req.Amount})
}

// Vote handles POST /escrow/milestones/:index/vote
func (h *EscrowHandler) Vote(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid milestone index"})
		return
	}

	backer := escrow.Identity(c.GetString("identity"))
	if err := h.svc.Vote(c.Request.Context(), backer, index); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "voted", "milestone_index": index})
}

// Release handles POST /escrow/milestones/:index/release. Deliberately open
// to any caller: approval is the vote tally, not an identity check.
func (h *EscrowHandler) Release(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid milestone index"})
		return
	}

	if err := h.svc.ReleaseMilestone(c.Request.Context(), index); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "released", "milestone_index": index})
}

// Refund handles POST /escrow/refund
func (h *EscrowHandler) Refund(c *gin.Context) {
	backer := escrow.Identity(c.GetString("identity"))
	if err := h.svc.ClaimRefund(c.Request.Context(), backer); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refunded"})
}

// GetProject handles GET /escrow/project
func (h *EscrowHandler) GetProject(c *gin.Context) {
	p, err := h.svc.GetProject(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetBackerInfo handles GET /escrow/backers/:identity
func (h *EscrowHandler) GetBackerInfo(c *gin.Context) {
	backer := escrow.Identity(c.Param("identity"))
	amount, err := h.svc.GetBackerInfo(c.Request.Context(), backer)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"backer": backer, "amount": amount})
}
