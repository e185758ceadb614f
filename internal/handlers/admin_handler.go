package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pedrorichil/aprovaia/internal/event"
	"github.com/pedrorichil/aprovaia/internal/service"
)

type AdminHandler struct {
	Content   *service.ContentService
	Publisher *event.Publisher
	UploadDir string
}

func NewAdminHandler(content *service.ContentService, publisher *event.Publisher, uploadDir string) *AdminHandler {
	return &AdminHandler{Content: content, Publisher: publisher, UploadDir: uploadDir}
}

// UploadExam receives an exam PDF, stashes it on disk and enqueues the
// ingestion job. The response carries the job id so callers can correlate
// worker logs.
func (h *AdminHandler) UploadExam(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Exam file is required"})
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are accepted"})
		return
	}

	contest := c.PostForm("contest")
	if contest == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contest name is required"})
		return
	}
	year, err := strconv.Atoi(c.PostForm("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Year must be a number"})
		return
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	dst := filepath.Join(h.UploadDir, fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	taskID, err := h.Publisher.EnqueueExam(dst, contest, year)
	if err != nil {
		os.Remove(dst)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Prova recebida. As questões serão processadas em segundo plano.",
		"task_id": taskID,
	})
}

type answerKeyInput struct {
	CorrectOption string `json:"correct_option" binding:"required"`
}

func (h *AdminHandler) UpdateAnswerKey(c *gin.Context) {
	var input answerKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.Content.UpdateAnswerKey(c.Request.Context(), c.Param("id"), input.CorrectOption)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if question == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	c.JSON(http.StatusOK, question)
}
