package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedrorichil/aprovaia/internal/middleware"
	"github.com/pedrorichil/aprovaia/internal/service"
)

type TeacherHandler struct {
	Service *service.TeacherService
}

func NewTeacherHandler(s *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{Service: s}
}

func (h *TeacherHandler) Dashboard(c *gin.Context) {
	profileID := c.GetString(middleware.ContextProfileID)
	tenantID := c.GetString(middleware.ContextTenantID)

	dashboard, err := h.Service.Dashboard(c.Request.Context(), profileID, tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *TeacherHandler) StudentDetails(c *gin.Context) {
	tenantID := c.GetString(middleware.ContextTenantID)

	details, err := h.Service.StudentDetails(c.Request.Context(), c.Param("id"), tenantID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found in this organization"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, details)
}
