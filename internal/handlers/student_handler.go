package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedrorichil/aprovaia/internal/adaptive"
	"github.com/pedrorichil/aprovaia/internal/middleware"
	"github.com/pedrorichil/aprovaia/internal/repository"
	"github.com/pedrorichil/aprovaia/internal/service"
)

type StudentHandler struct {
	Service *service.StudentService
	Users   *repository.UserRepository
}

func NewStudentHandler(s *service.StudentService, users *repository.UserRepository) *StudentHandler {
	return &StudentHandler{Service: s, Users: users}
}

func (h *StudentHandler) Me(c *gin.Context) {
	user, err := h.Users.FindByID(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *StudentHandler) Progress(c *gin.Context) {
	records, err := h.Service.Progress(c.Request.Context(), c.GetString(middleware.ContextProfileID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"proficiency_map": records})
}

func (h *StudentHandler) NextQuestion(c *gin.Context) {
	question, err := h.Service.NextQuestion(c.Request.Context(), c.GetString(middleware.ContextProfileID))
	if err != nil {
		if errors.Is(err, adaptive.ErrNoQuestions) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parabéns! Você respondeu todas as questões disponíveis."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *StudentHandler) SubmitAnswer(c *gin.Context) {
	var input service.SubmitAnswerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Service.SubmitAnswer(c.Request.Context(), c.GetString(middleware.ContextProfileID), input)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *StudentHandler) AnswerAnalysis(c *gin.Context) {
	answer, err := h.Service.AnswerAnalysis(c.Request.Context(), c.GetString(middleware.ContextProfileID), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAnswerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Answer belongs to another student"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if answer.AIAnalysis == nil {
		c.JSON(http.StatusOK, gin.H{
			"answer_id": answer.ID,
			"status":    "pending",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"answer_id": answer.ID,
		"status":    "completed",
		"analysis":  answer.AIAnalysis,
	})
}
