package domain

import (
	"strings"
	"time"
)

// StatusFlagOpen - значение SR_STATUS_FLAG для активных обращений
const StatusFlagOpen = "OPEN"

// MunicipalServiceRequest - обращение из городской выгрузки (только чтение)
type MunicipalServiceRequest struct {
	SRNumber        string  `json:"sr_number"`
	Status          string  `json:"status"`
	StatusFlag      string  `json:"status_flag"`
	TypeDescription string  `json:"type_description"`
	Address         string  `json:"address"`
	DateCreated     string  `json:"date_created,omitempty"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	Neighborhood    string  `json:"neighborhood,omitempty"`
	NumPotholes     *int    `json:"num_potholes,omitempty"`
}

// IsOpen - обращение активно (флаг OPEN без учёта регистра)
func (r *MunicipalServiceRequest) IsOpen() bool {
	return IsOpenStatusFlag(r.StatusFlag)
}

// IsOpenStatusFlag проверяет значение SR_STATUS_FLAG
func IsOpenStatusFlag(flag string) bool {
	return strings.EqualFold(strings.TrimSpace(flag), StatusFlagOpen)
}

// FeedResult - результат загрузки городской выгрузки.
// Warning заполняется, если файл существует, но не разобран.
type FeedResult struct {
	Requests []MunicipalServiceRequest `json:"requests"`
	Warning  string                    `json:"warning,omitempty"`
	LoadedAt time.Time                 `json:"loaded_at"`
}
