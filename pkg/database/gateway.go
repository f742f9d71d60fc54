package database

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/facultyportal/research-engine/pkg/apperrors"
	"github.com/facultyportal/research-engine/pkg/logging"
	"github.com/facultyportal/research-engine/pkg/models"
)

// QueryGateway is the only path by which generated SQL reaches the store.
type QueryGateway interface {
	// RunReadOnlyQuery executes a vetted statement through the fixed
	// server-side procedure and returns its rows.
	RunReadOnlyQuery(ctx context.Context, sql string) ([]models.Row, error)
}

// gatewayProcedure is the fixed server-side function that executes vetted
// statements. It runs under a role with SELECT-only privileges (see the
// migrations); that role, not this code, is the final security boundary.
const gatewayProcedure = "SELECT run_chatbot_query($1)"

// Gateway invokes the run_chatbot_query procedure on the portal database.
type Gateway struct {
	db     *DB
	logger *zap.Logger
}

// NewGateway creates the execution gateway.
func NewGateway(db *DB, logger *zap.Logger) *Gateway {
	return &Gateway{db: db, logger: logger.Named("gateway")}
}

var _ QueryGateway = (*Gateway)(nil)

// RunReadOnlyQuery passes the statement to the procedure as its single
// parameter and decodes the jsonb row set it returns. Rows come back
// unmodified; any procedure error (privilege denial, malformed SQL, timeout)
// is surfaced as an execution error with the raw cause attached for
// server-side logging only.
func (g *Gateway) RunReadOnlyQuery(ctx context.Context, sql string) ([]models.Row, error) {
	var payload []byte
	if err := g.db.QueryRow(ctx, gatewayProcedure, sql).Scan(&payload); err != nil {
		g.logger.Error("query procedure failed",
			zap.String("sql", logging.TruncateSQL(sql)),
			zap.String("cause", logging.SanitizeError(err)))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrExecution, err)
	}

	if len(payload) == 0 {
		return []models.Row{}, nil
	}

	var rows []models.Row
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode procedure result: %w", apperrors.ErrExecution, err)
	}

	return rows, nil
}
