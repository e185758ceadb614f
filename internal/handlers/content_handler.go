package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedrorichil/aprovaia/internal/service"
)

type ContentHandler struct {
	Service *service.ContentService
}

func NewContentHandler(s *service.ContentService) *ContentHandler {
	return &ContentHandler{Service: s}
}

func (h *ContentHandler) CreateQuestion(c *gin.Context) {
	var input service.CreateQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.Service.CreateQuestion(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, question)
}

const similarQuestionsLimit = 5

func (h *ContentHandler) SimilarQuestions(c *gin.Context) {
	questions, err := h.Service.SimilarQuestions(c.Request.Context(), c.Param("id"), similarQuestionsLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if questions == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}
