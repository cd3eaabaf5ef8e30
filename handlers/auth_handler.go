package handlers

import (
	"net/http"

	"trivia/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type tokenRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) IssueToken(c *gin.Context) {
	if !h.authService.Enabled() {
		Abort(c, http.StatusNotFound)
		return
	}

	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Abort(c, http.StatusUnprocessableEntity)
		return
	}

	token, err := h.authService.IssueToken(req.Password)
	if err != nil {
		if services.KindOf(err) == services.KindInvalid {
			h.logger.Info("admin login rejected")
			Abort(c, http.StatusUnauthorized)
			return
		}
		respondError(c, h.logger, writeStatuses, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}
