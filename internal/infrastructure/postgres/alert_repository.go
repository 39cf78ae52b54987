package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

const alertColumns = `id, company_id, title, description, category, color, icon, reference, payload, read, created_at`

// AlertRepo alertas persistidas sobre PostgreSQL.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create persiste la alerta. El payload viaja como JSONB (NULL si no hay).
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	var payload []byte
	if a.Payload != nil {
		b, err := json.Marshal(a.Payload)
		if err != nil {
			return fmt.Errorf("encode alert payload: %w", err)
		}
		payload = b
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO alerts (`+alertColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.CompanyID, a.Title, a.Description, a.Category, a.Color, a.Icon, a.Reference, payload, a.Read, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// ListByCompany alertas más recientes primero.
func (r *AlertRepo) ListByCompany(ctx context.Context, companyID string, unreadOnly bool, limit, offset int) ([]*entity.Alert, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+alertColumns+` FROM alerts
		 WHERE company_id = $1 AND (NOT $2 OR NOT read)
		 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		companyID, unreadOnly, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		var a entity.Alert
		var payload []byte
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Title, &a.Description, &a.Category, &a.Color, &a.Icon,
			&a.Reference, &payload, &a.Read, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		if len(payload) > 0 {
			a.Payload = &entity.AlertPayload{}
			if err := json.Unmarshal(payload, a.Payload); err != nil {
				return nil, fmt.Errorf("decode alert payload: %w", err)
			}
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// CountUnread contador del badge.
func (r *AlertRepo) CountUnread(ctx context.Context, companyID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM alerts WHERE company_id = $1 AND NOT read`, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread alerts: %w", err)
	}
	return n, nil
}

// MarkRead marca como leída; ErrNotFound si la alerta no es de la empresa.
func (r *AlertRepo) MarkRead(ctx context.Context, companyID, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE alerts SET read = TRUE WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ExistsSince indica si ya hay una alerta con esa categoría y referencia desde since.
func (r *AlertRepo) ExistsSince(ctx context.Context, companyID, category, reference string, since time.Time) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM alerts WHERE company_id = $1 AND category = $2 AND reference = $3 AND created_at >= $4)`,
		companyID, category, reference, since,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists alert: %w", err)
	}
	return exists, nil
}
