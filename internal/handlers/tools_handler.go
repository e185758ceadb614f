package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedrorichil/aprovaia/internal/service"
)

type ToolsHandler struct {
	Service *service.ToolsService
}

func NewToolsHandler(s *service.ToolsService) *ToolsHandler {
	return &ToolsHandler{Service: s}
}

type gradeEssayInput struct {
	EssayText string `json:"essay_text" binding:"required"`
	Theme     string `json:"theme" binding:"required"`
}

func (h *ToolsHandler) GradeEssay(c *gin.Context) {
	var input gradeEssayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grade, err := h.Service.GradeEssay(c.Request.Context(), input.EssayText, input.Theme)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Não foi possível corrigir a redação no momento."})
		return
	}
	c.JSON(http.StatusOK, grade)
}

type askTutorInput struct {
	Question string `json:"question" binding:"required"`
	Context  string `json:"context"`
}

func (h *ToolsHandler) AskTutor(c *gin.Context) {
	var input askTutorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.Service.AskTutor(c.Request.Context(), input.Question, input.Context)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "O tutor está indisponível no momento."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

type summarizeInput struct {
	Text string `json:"text" binding:"required"`
}

func (h *ToolsHandler) Summarize(c *gin.Context) {
	var input summarizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.Service.Summarize(c.Request.Context(), input.Text)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Não foi possível resumir o conteúdo no momento."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
