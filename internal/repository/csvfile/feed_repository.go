package csvfile

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/domain/repository"
	"go.uber.org/zap"
)

// Колонки городской выгрузки 311
const (
	colSRNumber     = "SR_NUMBER"
	colStatus       = "SR_STATUS"
	colStatusFlag   = "SR_STATUS_FLAG"
	colTypeDesc     = "SR_TYPE_DESC"
	colAddress      = "ADDRESS"
	colDateCreated  = "DATE_CREATED"
	colLatitude     = "LATITUDE"
	colLongitude    = "LONGITUDE"
	colNeighborhood = "NEIGHBORHOOD"
	colNumPotholes  = "NUM_POTHOLES"
)

type feedRepository struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewFeedRepository(logger *zap.Logger) repository.MunicipalFeedRepository {
	return &feedRepository{
		logger: logger,
		now:    time.Now,
	}
}

func (r *feedRepository) Load(ctx context.Context, path string) *domain.FeedResult {
	result := &domain.FeedResult{
		Requests: []domain.MunicipalServiceRequest{},
		LoadedAt: r.now().UTC(),
	}
	if ctx.Err() != nil {
		return result
	}

	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			result.Warning = "Could not read pothole CSV: " + err.Error()
			r.logger.Warn("Municipal feed is unreadable", zap.String("path", path), zap.Error(err))
		}
		return result
	}
	defer f.Close()

	t, err := readTable(f, false)
	if err != nil {
		result.Warning = "Could not read pothole CSV: " + err.Error()
		r.logger.Warn("Municipal feed is malformed", zap.String("path", path), zap.Error(err))
		return result
	}
	if len(t.header) == 0 {
		result.Warning = "Could not read pothole CSV: file is empty"
		r.logger.Warn("Municipal feed is empty", zap.String("path", path))
		return result
	}

	flagIdx := t.column(colStatusFlag)
	if flagIdx < 0 {
		r.logger.Info("Municipal feed has no status flag column, nothing is open", zap.String("path", path))
		return result
	}

	var (
		srIdx    = t.column(colSRNumber)
		stIdx    = t.column(colStatus)
		typeIdx  = t.column(colTypeDesc)
		addrIdx  = t.column(colAddress)
		dateIdx  = t.column(colDateCreated)
		latIdx   = t.column(colLatitude)
		lonIdx   = t.column(colLongitude)
		hoodIdx  = t.column(colNeighborhood)
		countIdx = t.column(colNumPotholes)
	)

	for _, row := range t.rows {
		flag := t.cell(row, flagIdx)
		if !domain.IsOpenStatusFlag(flag) {
			continue
		}
		lat, ok := parseCoordinate(t.cell(row, latIdx))
		if !ok {
			continue
		}
		lon, ok := parseCoordinate(t.cell(row, lonIdx))
		if !ok {
			continue
		}

		req := domain.MunicipalServiceRequest{
			SRNumber:        t.cell(row, srIdx),
			Status:          t.cell(row, stIdx),
			StatusFlag:      flag,
			TypeDescription: t.cell(row, typeIdx),
			Address:         t.cell(row, addrIdx),
			DateCreated:     t.cell(row, dateIdx),
			Lat:             lat,
			Lon:             lon,
			Neighborhood:    t.cell(row, hoodIdx),
		}
		if n, err := strconv.Atoi(t.cell(row, countIdx)); err == nil {
			req.NumPotholes = &n
		}
		result.Requests = append(result.Requests, req)
	}

	r.logger.Debug("Municipal feed loaded",
		zap.String("path", path),
		zap.Int("rows", len(t.rows)),
		zap.Int("open", len(result.Requests)))
	return result
}
