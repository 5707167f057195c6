package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/domain/repository"
	"github.com/streetsmart-service/internal/pkg/requestcsv"
	"go.uber.org/zap"
)

type repairRequestRepository struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewRepairRequestRepository - хранилище заявок в одном CSV файле
func NewRepairRequestRepository(path string, logger *zap.Logger) repository.RepairRequestRepository {
	return &repairRequestRepository{
		path:   path,
		logger: logger,
	}
}

func (r *repairRequestRepository) Append(ctx context.Context, req *domain.RepairRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := readTableFile(r.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		t = &table{header: append([]string(nil), requestcsv.Columns...)}
	case err != nil:
		return fmt.Errorf("read requests file: %w", err)
	case len(t.header) == 0:
		t.header = append([]string(nil), requestcsv.Columns...)
	}

	for _, col := range requestcsv.Columns {
		t.ensureColumn(col, defaultCell(col))
	}

	idIdx := t.column("id")
	id := domain.NormalizeID(req.ID)
	for _, row := range t.rows {
		if t.cell(row, idIdx) == id {
			return domain.ErrDuplicateID
		}
	}

	values := requestcsv.Row(req)
	row := make([]string, len(t.header))
	for i, col := range requestcsv.Columns {
		row[t.column(col)] = values[i]
	}
	t.rows = append(t.rows, row)

	if err := r.write(t); err != nil {
		return err
	}

	r.logger.Debug("Repair request appended",
		zap.String("id", id),
		zap.Int("rows", len(t.rows)))
	return nil
}

func (r *repairRequestRepository) Upvote(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := readTableFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ErrStoreNotFound
	}
	if err != nil {
		return fmt.Errorf("read requests file: %w", err)
	}

	idIdx := t.column("id")
	if idIdx < 0 {
		return domain.ErrRequestNotFound
	}
	ratingIdx := t.ensureColumn("rating", "0")

	id = domain.NormalizeID(id)
	matched := 0
	for i, row := range t.rows {
		if t.cell(row, idIdx) != id {
			continue
		}
		row = padRow(row, len(t.header))
		row[ratingIdx] = strconv.Itoa(parseRating(row[ratingIdx]) + 1)
		t.rows[i] = row
		matched++
	}
	if matched == 0 {
		return domain.ErrRequestNotFound
	}

	if err := r.write(t); err != nil {
		return err
	}

	r.logger.Debug("Repair request upvoted",
		zap.String("id", id),
		zap.Int("matched_rows", matched))
	return nil
}

func (r *repairRequestRepository) ListRecent(ctx context.Context, limit int) ([]domain.RepairRequest, error) {
	requests, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].Timestamp.After(requests[j].Timestamp)
	})
	if limit >= 0 && len(requests) > limit {
		requests = requests[:limit]
	}
	return requests, nil
}

// List не возвращает ошибок разбора: отсутствующий или испорченный файл - пустой список
func (r *repairRequestRepository) List(ctx context.Context) ([]domain.RepairRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	t, err := readTableFile(r.path)
	r.mu.Unlock()

	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("Requests file is unreadable", zap.String("path", r.path), zap.Error(err))
		}
		return []domain.RepairRequest{}, nil
	}

	return decodeRequests(t), nil
}

func (r *repairRequestRepository) write(t *table) error {
	data, err := t.encode()
	if err != nil {
		return fmt.Errorf("encode requests file: %w", err)
	}
	if err := writeFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("write requests file: %w", err)
	}
	return nil
}

func defaultCell(col string) string {
	if col == "rating" {
		return "0"
	}
	return ""
}

// decodeRequests пропускает строки без id или с некорректными координатами
func decodeRequests(t *table) []domain.RepairRequest {
	idx := make(map[string]int, len(requestcsv.Columns))
	for _, col := range requestcsv.Columns {
		idx[col] = t.column(col)
	}

	result := make([]domain.RepairRequest, 0, len(t.rows))
	for _, row := range t.rows {
		id := t.cell(row, idx["id"])
		if id == "" {
			continue
		}
		lat, ok := parseCoordinate(t.cell(row, idx["lat"]))
		if !ok {
			continue
		}
		lon, ok := parseCoordinate(t.cell(row, idx["lon"]))
		if !ok {
			continue
		}

		req := domain.RepairRequest{
			ID:          id,
			Name:        t.rawCell(row, idx["name"]),
			Description: t.rawCell(row, idx["description"]),
			Lat:         lat,
			Lon:         lon,
			Rating:      parseRating(t.cell(row, idx["rating"])),
		}
		severity := t.rawCell(row, idx["severity"])
		if sev, ok := domain.ParseSeverity(severity); ok {
			req.Severity = sev
		} else {
			req.Severity = domain.Severity(severity)
		}
		if ts, ok := domain.ParseTimestamp(t.cell(row, idx["timestamp"])); ok {
			req.Timestamp = ts
		}
		result = append(result, req)
	}
	return result
}

func parseCoordinate(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseRating: пусто или мусор - 0; "3.0" из старых выгрузок - 3
func parseRating(s string) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && !math.IsInf(f, 0) {
		return int(f)
	}
	return 0
}
