package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/vetanhq/payroll-backend-go/internal/domain/punch"
	"github.com/vetanhq/payroll-backend-go/internal/pkg/database"
)

type punchRepository struct {
	db *database.DB
}

// ListWindow implements punch.Repository.
func (p *punchRepository) ListWindow(ctx context.Context, tenantID string, from, to time.Time, deviceUserIDs []string) ([]punch.Raw, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT id, tenant_id, device_user_id, punch_time, device_id, punch_type,
			   is_processed, processed_at, created_at
		FROM raw_punch_logs
		WHERE tenant_id = $1
		  AND punch_time >= $2
		  AND punch_time <= $3
	`
	args := []any{tenantID, from, to}

	if len(deviceUserIDs) > 0 {
		query += ` AND device_user_id = ANY($4)`
		args = append(args, deviceUserIDs)
	}
	query += ` ORDER BY punch_time ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list raw punches: %w", err)
	}
	defer rows.Close()

	var punches []punch.Raw
	for rows.Next() {
		var raw punch.Raw
		err := rows.Scan(
			&raw.ID, &raw.TenantID, &raw.DeviceUserID, &raw.PunchTime, &raw.DeviceID, &raw.PunchType,
			&raw.IsProcessed, &raw.ProcessedAt, &raw.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan raw punch: %w", err)
		}
		punches = append(punches, raw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate raw punches: %w", err)
	}

	return punches, nil
}

// MarkProcessed implements punch.Repository.
func (p *punchRepository) MarkProcessed(ctx context.Context, tenantID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	q := GetQuerier(ctx, p.db)

	query := `
		UPDATE raw_punch_logs
		SET is_processed = TRUE, processed_at = NOW()
		WHERE tenant_id = $1
		  AND id = ANY($2)
	`

	if _, err := q.Exec(ctx, query, tenantID, ids); err != nil {
		return fmt.Errorf("failed to mark punches processed: %w", err)
	}

	return nil
}

func NewPunchRepository(db *database.DB) punch.Repository {
	return &punchRepository{db: db}
}
