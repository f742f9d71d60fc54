package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/facultyportal/research-engine/pkg/apperrors"
	"github.com/facultyportal/research-engine/pkg/auth"
	"github.com/facultyportal/research-engine/pkg/llm"
	"github.com/facultyportal/research-engine/pkg/models"
	"github.com/facultyportal/research-engine/pkg/prompts"
	"github.com/facultyportal/research-engine/pkg/services"
)

type spyGateway struct {
	rows  []models.Row
	err   error
	calls int
}

func (g *spyGateway) RunReadOnlyQuery(ctx context.Context, sql string) ([]models.Row, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.rows, nil
}

func chatRequest(t *testing.T, profile *models.Profile, question string) *http.Request {
	t.Helper()
	body, err := json.Marshal(models.ChatRequest{Question: question})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chatbot/query", bytes.NewReader(body))
	return req.WithContext(auth.WithProfile(req.Context(), profile))
}

func newHandler(candidate string, gateway *spyGateway) *ChatbotHandler {
	generator := llm.NewMockSQLGenerator()
	generator.GenerateSQLFunc = func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		return candidate, nil
	}
	svc := services.NewChatbotService(generator, gateway, zap.NewNop())
	return NewChatbotHandler(svc, zap.NewNop())
}

func TestQuery_FacultyOwnRecords(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Role: models.RoleFaculty, Department: "CSE"}
	generated := fmt.Sprintf(
		"SELECT title FROM journal_publications JOIN profiles ON profiles.id = profile_id WHERE profiles.id = '%s'",
		profile.ID)
	gateway := &spyGateway{rows: []models.Row{{"title": "Paper One"}, {"title": "Paper Two"}}}
	handler := newHandler(generated, gateway)

	rec := httptest.NewRecorder()
	handler.Query(rec, chatRequest(t, profile, "show all my journal publications"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.SQL, fmt.Sprintf("profiles.id = '%s'", profile.ID))
	assert.Len(t, resp.Result, 2)
	assert.Equal(t, 1, gateway.calls)
}

func TestQuery_InstituteWideAskDenied(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Role: models.RoleFaculty, Department: "CSE"}
	gateway := &spyGateway{}
	handler := newHandler(prompts.AccessDeniedSentinel, gateway)

	rec := httptest.NewRecorder()
	handler.Query(rec, chatRequest(t, profile, "show all patents in the institute"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Access not allowed"}`, rec.Body.String())
	assert.Equal(t, 0, gateway.calls)
}

func TestQuery_AdminInstituteWideExecutes(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Role: models.RoleAdmin, Department: ""}
	gateway := &spyGateway{rows: []models.Row{{"patent_title": "Widget", "patent_status": "PENDING"}}}
	handler := newHandler("SELECT patent_title, patent_status FROM patents WHERE patent_status = 'PENDING'", gateway)

	rec := httptest.NewRecorder()
	handler.Query(rec, chatRequest(t, profile, "list all pending patents"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SQL)
	assert.Len(t, resp.Result, 1)
	assert.Equal(t, 1, gateway.calls)
}

func TestQuery_PolicyViolatingStatementRejected(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Role: models.RoleFaculty, Department: "CSE"}
	gateway := &spyGateway{}
	handler := newHandler("DROP TABLE profiles", gateway)

	rec := httptest.NewRecorder()
	handler.Query(rec, chatRequest(t, profile, "drop everything"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Only SELECT queries allowed")
	assert.Equal(t, 0, gateway.calls)
}

func TestQuery_WriteKeywordRejected(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Role: models.RoleFaculty, Department: "CSE"}
	gateway := &spyGateway{}
	handler := newHandler("select 1 update profiles set role = 'ADMIN'", gateway)

	rec := httptest.NewRecorder()
	handler.Query(rec, chatRequest(t, profile, "make me admin"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Write operations are not allowed")
	assert.Equal(t, 0, gateway.calls)
}

func TestQuery_ExecutionFailureIsServerError(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Role: models.RoleAdmin}
	gateway := &spyGateway{err: fmt.Errorf("%w: relation does not exist", apperrors.ErrExecution)}
	handler := newHandler("SELECT 1", gateway)

	rec := httptest.NewRecorder()
	handler.Query(rec, chatRequest(t, profile, "anything"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Query execution failed")
	assert.NotContains(t, rec.Body.String(), "relation does not exist")
}

func TestQuery_EmptyQuestion(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Role: models.RoleFaculty, Department: "CSE"}
	gateway := &spyGateway{}
	handler := newHandler("SELECT 1", gateway)

	rec := httptest.NewRecorder()
	handler.Query(rec, chatRequest(t, profile, "   "))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Question is required")
	assert.Equal(t, 0, gateway.calls)
}

func TestQuery_InvalidBody(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Role: models.RoleFaculty, Department: "CSE"}
	handler := newHandler("SELECT 1", &spyGateway{})

	req := httptest.NewRequest(http.MethodPost, "/api/chatbot/query", bytes.NewReader([]byte("{not json")))
	req = req.WithContext(auth.WithProfile(req.Context(), profile))
	rec := httptest.NewRecorder()
	handler.Query(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuery_NoProfileInContext(t *testing.T) {
	handler := newHandler("SELECT 1", &spyGateway{})

	body, _ := json.Marshal(models.ChatRequest{Question: "hi"})
	req := httptest.NewRequest(http.MethodPost, "/api/chatbot/query", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Query(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestQuery_NilRowsEncodesAsEmptyArray(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Role: models.RoleAdmin}
	handler := newHandler("SELECT 1 WHERE false", &spyGateway{rows: nil})

	rec := httptest.NewRecorder()
	handler.Query(rec, chatRequest(t, profile, "anything"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"result":[]`)
}
