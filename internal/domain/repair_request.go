package domain

import (
	"errors"
	"strings"
	"time"
)

// AnonymousReporter - имя автора заявки, если поле оставлено пустым
const AnonymousReporter = "anonymous"

// TimestampLayout - формат хранения времени заявки (UTC, фиксированная ширина)
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Severity - степень серьёзности ямы
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Severities - допустимые значения в порядке отображения в форме
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh}

// ParseSeverity сопоставляет строку с допустимым значением без учёта регистра
func ParseSeverity(s string) (Severity, bool) {
	s = strings.TrimSpace(s)
	for _, sev := range Severities {
		if strings.EqualFold(s, string(sev)) {
			return sev, true
		}
	}
	return "", false
}

var (
	ErrRequestNotFound = errors.New("repair request not found")
	ErrStoreNotFound   = errors.New("repair request store does not exist")
	ErrDuplicateID     = errors.New("repair request id already exists")
)

// RepairRequest - заявка пользователя на ремонт
type RepairRequest struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Timestamp   time.Time `json:"timestamp"`
	Rating      int       `json:"rating"`
}

// FormatTimestamp форматирует время заявки для хранения
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp разбирает ISO-8601 время. Значения без зоны считаются UTC
// (так их пишет datetime.utcnow().isoformat() в старых CSV выгрузках).
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// NormalizeID приводит идентификатор к строковой форме для сравнения
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}
