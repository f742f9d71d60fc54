// Package services contains the chatbot orchestration logic.
package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/facultyportal/research-engine/pkg/apperrors"
	"github.com/facultyportal/research-engine/pkg/database"
	"github.com/facultyportal/research-engine/pkg/llm"
	"github.com/facultyportal/research-engine/pkg/logging"
	"github.com/facultyportal/research-engine/pkg/models"
	"github.com/facultyportal/research-engine/pkg/prompts"
	sqlguard "github.com/facultyportal/research-engine/pkg/sql"
)

// ChatbotService answers natural-language questions with query results,
// enforcing the portal's access rules along the way.
type ChatbotService interface {
	// HandleQuestion runs one question through the full pipeline:
	// prompt construction, SQL generation, the denial short-circuit,
	// read-only validation, and execution. Each request is independent;
	// nothing is cached or shared between calls.
	HandleQuestion(ctx context.Context, profile *models.Profile, question string) (*models.ChatResult, error)
}

type chatbotService struct {
	generator llm.SQLGenerator
	gateway   database.QueryGateway
	logger    *zap.Logger
}

// NewChatbotService creates the chatbot orchestrator with its dependencies.
func NewChatbotService(generator llm.SQLGenerator, gateway database.QueryGateway, logger *zap.Logger) ChatbotService {
	return &chatbotService{
		generator: generator,
		gateway:   gateway,
		logger:    logger.Named("chatbot"),
	}
}

// HandleQuestion implements ChatbotService.
//
// The stages run strictly in order and exactly once; there are no retries.
// Generated SQL is logged only once it has passed validation and is about
// to execute. A denial is logged as the fact of denial, never the content.
func (s *chatbotService) HandleQuestion(ctx context.Context, profile *models.Profile, question string) (*models.ChatResult, error) {
	if result := sqlguard.CheckQuestion(question); result != nil {
		s.logger.Warn("question failed injection screen",
			zap.String("profile_id", profile.ID.String()),
			zap.String("fingerprint", result.Fingerprint))
		return nil, apperrors.ErrUnsafeQuestion
	}

	userPrompt := prompts.BuildQueryPrompt(profile, question)
	systemPrompt := prompts.SystemPrompt(profile)

	candidate, err := s.generator.GenerateSQL(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate sql: %w", err)
	}

	if strings.TrimSpace(candidate) == prompts.AccessDeniedSentinel {
		s.logger.Info("access denied by policy",
			zap.String("profile_id", profile.ID.String()),
			zap.String("role", string(profile.Role)))
		return &models.ChatResult{Denied: true}, nil
	}

	if err := sqlguard.ValidateReadOnly(candidate); err != nil {
		s.logger.Warn("candidate rejected by validator",
			zap.String("profile_id", profile.ID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("executing generated sql",
		zap.String("profile_id", profile.ID.String()),
		zap.String("role", string(profile.Role)),
		zap.String("sql", logging.TruncateSQL(candidate)))

	rows, err := s.gateway.RunReadOnlyQuery(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}

	return &models.ChatResult{SQL: candidate, Rows: rows}, nil
}
