package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeSink struct {
	events []string
}

func (f *fakeSink) Publish(eventType string, _ interface{}) error {
	f.events = append(f.events, eventType)
	return nil
}

func TestPublishEventOnlyOnSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		status    int
		published bool
	}{
		{"created", http.StatusCreated, true},
		{"ok", http.StatusOK, true},
		{"bad request", http.StatusBadRequest, false},
		{"unauthorized", http.StatusUnauthorized, false},
		{"server error", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &fakeSink{}
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Status(tt.status)

			publishEvent(c, sink, "user.registered", nil)

			if got := len(sink.events) == 1; got != tt.published {
				t.Errorf("Status %d: published=%v, expected %v", tt.status, got, tt.published)
			}
		})
	}
}
