package handlers

import (
	"log/slog"
	"net/http"

	"solar-dealer-hub/internal/ai"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

func AskAI(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	if opts.GeminiAPIKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assistant is not configured"})
		return
	}

	response, err := ai.RunAgent(c.Request.Context(), req.Message, opts.GeminiAPIKey, opts.GeminiModel)
	if err != nil {
		slog.Error("assistant failed", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Assistant request failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": response})
}
