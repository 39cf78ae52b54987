package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.CountRepository = (*CountRepo)(nil)

const countColumns = `id, company_id, worker_id, location, status, items, total_expected, total_counted,
	created_at, updated_at, closed_at`

// CountRepo sesiones de conteo; las líneas se guardan como JSONB en la misma fila.
type CountRepo struct {
	q Querier
}

// NewCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCountRepository(q Querier) *CountRepo {
	return &CountRepo{q: q}
}

func scanCount(row rowScanner) (*entity.CountSession, error) {
	var s entity.CountSession
	var items []byte
	err := row.Scan(&s.ID, &s.CompanyID, &s.WorkerID, &s.Location, &s.Status, &items,
		&s.TotalExpected, &s.TotalCounted, &s.CreatedAt, &s.UpdatedAt, &s.ClosedAt)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &s.Items); err != nil {
			return nil, fmt.Errorf("decode count items: %w", err)
		}
	}
	return &s, nil
}

func encodeItems(items []entity.CountItem) ([]byte, error) {
	if items == nil {
		items = []entity.CountItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode count items: %w", err)
	}
	return b, nil
}

// Create persiste la sesión con sus líneas.
func (r *CountRepo) Create(ctx context.Context, s *entity.CountSession) error {
	items, err := encodeItems(s.Items)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx,
		`INSERT INTO count_sessions (`+countColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.CompanyID, s.WorkerID, s.Location, s.Status, items, s.TotalExpected, s.TotalCounted,
		s.CreatedAt, s.UpdatedAt, s.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("insert count session: %w", err)
	}
	return nil
}

func (r *CountRepo) getOne(ctx context.Context, query string, args ...any) (*entity.CountSession, error) {
	s, err := scanCount(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get count session: %w", err)
	}
	return s, nil
}

// GetByID obtiene una sesión.
func (r *CountRepo) GetByID(ctx context.Context, companyID, id string) (*entity.CountSession, error) {
	return r.getOne(ctx, `SELECT `+countColumns+` FROM count_sessions WHERE company_id = $1 AND id = $2`, companyID, id)
}

// GetForUpdate obtiene la sesión bloqueando la fila; dos guardados de la misma sesión se serializan.
func (r *CountRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.CountSession, error) {
	return r.getOne(ctx, `SELECT `+countColumns+` FROM count_sessions WHERE company_id = $1 AND id = $2 FOR UPDATE`, companyID, id)
}

// Update reescribe estado, líneas y totales.
func (r *CountRepo) Update(ctx context.Context, s *entity.CountSession) error {
	items, err := encodeItems(s.Items)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE count_sessions SET status = $3, items = $4, total_expected = $5, total_counted = $6,
			updated_at = $7, closed_at = $8
		 WHERE company_id = $1 AND id = $2`,
		s.CompanyID, s.ID, s.Status, items, s.TotalExpected, s.TotalCounted, s.UpdatedAt, s.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("update count session: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany sesiones más recientes primero; location vacío = todas.
func (r *CountRepo) ListByCompany(ctx context.Context, companyID, location string, limit, offset int) ([]*entity.CountSession, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+countColumns+` FROM count_sessions
		 WHERE company_id = $1 AND ($2::text = '' OR location = $2)
		 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		companyID, location, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list count sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.CountSession
	for rows.Next() {
		s, err := scanCount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan count session: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
