package sqlstore

import (
	"context"
	"fmt"

	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/domain/repository"
	"go.uber.org/zap"
)

type repairRequestRepository struct {
	db *DB
}

func NewRepairRequestRepository(db *DB) repository.RepairRequestRepository {
	return &repairRequestRepository{db: db}
}

type repairRequestRow struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Severity    string  `db:"severity"`
	Lat         float64 `db:"lat"`
	Lon         float64 `db:"lon"`
	CreatedAt   string  `db:"created_at"`
	Rating      int     `db:"rating"`
}

func (r repairRequestRow) toDomain() domain.RepairRequest {
	req := domain.RepairRequest{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Severity:    domain.Severity(r.Severity),
		Lat:         r.Lat,
		Lon:         r.Lon,
		Rating:      r.Rating,
	}
	if ts, ok := domain.ParseTimestamp(r.CreatedAt); ok {
		req.Timestamp = ts
	}
	return req
}

const selectColumns = `id, name, description, severity, lat, lon, created_at, rating`

func (r *repairRequestRepository) Append(ctx context.Context, req *domain.RepairRequest) error {
	query := r.db.Rebind(`
		INSERT INTO repair_requests (id, name, description, severity, lat, lon, created_at, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`)

	res, err := r.db.ExecContext(ctx, query,
		domain.NormalizeID(req.ID),
		req.Name,
		req.Description,
		string(req.Severity),
		req.Lat,
		req.Lon,
		domain.FormatTimestamp(req.Timestamp),
		req.Rating,
	)
	if err != nil {
		r.db.logger.Error("Failed to insert repair request", zap.String("id", req.ID), zap.Error(err))
		return fmt.Errorf("insert repair request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert repair request: %w", err)
	}
	if affected == 0 {
		return domain.ErrDuplicateID
	}
	return nil
}

func (r *repairRequestRepository) Upvote(ctx context.Context, id string) error {
	query := r.db.Rebind(`UPDATE repair_requests SET rating = rating + 1 WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, domain.NormalizeID(id))
	if err != nil {
		r.db.logger.Error("Failed to upvote repair request", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("upvote repair request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("upvote repair request: %w", err)
	}
	if affected == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (r *repairRequestRepository) ListRecent(ctx context.Context, limit int) ([]domain.RepairRequest, error) {
	query := r.db.Rebind(`SELECT ` + selectColumns + ` FROM repair_requests ORDER BY created_at DESC, id LIMIT ?`)
	return r.list(ctx, query, limit)
}

func (r *repairRequestRepository) List(ctx context.Context) ([]domain.RepairRequest, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM repair_requests ORDER BY created_at, id`)
}

func (r *repairRequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.RepairRequest, error) {
	var rows []repairRequestRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.db.logger.Error("Failed to list repair requests", zap.Error(err))
		return nil, fmt.Errorf("list repair requests: %w", err)
	}

	result := make([]domain.RepairRequest, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}
