package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedrorichil/aprovaia/internal/middleware"
	"github.com/pedrorichil/aprovaia/internal/service"
)

type OnboardingHandler struct {
	Service *service.OnboardingService
}

func NewOnboardingHandler(s *service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{Service: s}
}

func (h *OnboardingHandler) Complete(c *gin.Context) {
	var input service.OnboardingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	profileID := c.GetString(middleware.ContextProfileID)
	if err := h.Service.Complete(c.Request.Context(), userID, profileID, input); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Onboarding concluído com sucesso."})
}
