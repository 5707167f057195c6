package requestcsv

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/streetsmart-service/internal/domain"
)

// Columns - схема CSV заявок: файл хранилища и выгрузки
var Columns = []string{"id", "name", "description", "severity", "lat", "lon", "timestamp", "rating"}

// Row - значения заявки в порядке Columns
func Row(req *domain.RepairRequest) []string {
	return []string{
		domain.NormalizeID(req.ID),
		req.Name,
		req.Description,
		string(req.Severity),
		strconv.FormatFloat(req.Lat, 'f', -1, 64),
		strconv.FormatFloat(req.Lon, 'f', -1, 64),
		domain.FormatTimestamp(req.Timestamp),
		strconv.Itoa(req.Rating),
	}
}

// Encode сериализует заявки с заголовком Columns
func Encode(requests []domain.RepairRequest) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, err
	}
	for i := range requests {
		if err := w.Write(Row(&requests[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
