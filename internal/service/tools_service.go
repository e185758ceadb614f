package service

import (
	"context"

	"github.com/pedrorichil/aprovaia/internal/ai"
	"github.com/pedrorichil/aprovaia/internal/models"
)

// ToolsService exposes the standalone AI study tools.
type ToolsService struct {
	AI *ai.Client
}

func NewToolsService(aiClient *ai.Client) *ToolsService {
	return &ToolsService{AI: aiClient}
}

func (s *ToolsService) GradeEssay(ctx context.Context, essayText, theme string) (*models.EssayGrade, error) {
	return s.AI.GradeEssay(ctx, essayText, theme)
}

func (s *ToolsService) AskTutor(ctx context.Context, question, studyContext string) (string, error) {
	return s.AI.AskTutor(ctx, question, studyContext)
}

func (s *ToolsService) Summarize(ctx context.Context, text string) (string, error) {
	return s.AI.Summarize(ctx, text)
}
