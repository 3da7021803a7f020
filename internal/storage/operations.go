package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sortwise/sortwise/internal/model"
)

// RecordOperation appends one row of operation history.
func (s *SQLiteStorage) RecordOperation(ctx context.Context, op *model.Operation) error {
	if op == nil {
		return fmt.Errorf("operation must not be nil")
	}

	executedAt := op.ExecutedAt
	if executedAt.IsZero() {
		executedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx, `INSERT INTO operation_history
		(operation_type, source_path, destination_path, status, error_message, executed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		op.Type, op.SourcePath, op.DestinationPath, string(op.Status), op.ErrorMessage, executedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record operation: %w", err)
	}

	if id, idErr := result.LastInsertId(); idErr == nil {
		op.ID = id
	}
	return nil
}

// GetOperationHistory returns the most recent operations first.
func (s *SQLiteStorage) GetOperationHistory(ctx context.Context, limit int) ([]model.Operation, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, operation_type, source_path,
		destination_path, status, error_message, executed_at
		FROM operation_history ORDER BY executed_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query operation history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ops []model.Operation
	for rows.Next() {
		var op model.Operation
		var status string
		var dest, errMsg sql.NullString

		if err := rows.Scan(&op.ID, &op.Type, &op.SourcePath, &dest, &status, &errMsg, &op.ExecutedAt); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}

		op.Status = model.OperationStatus(status)
		op.DestinationPath = dest.String
		op.ErrorMessage = errMsg.String
		ops = append(ops, op)
	}
	return ops, rows.Err()
}
