package dto

import "github.com/streetsmart-service/internal/pkg/utils"

// CreateRepairRequestRequest - заявка на ремонт в формате совместимого /api/requests.
// id и timestamp необязательны: сервер подставит uuid и текущее время.
type CreateRepairRequestRequest struct {
	ID          utils.FlexibleString `json:"id" validate:"max=64"`
	Name        string               `json:"name" validate:"max=100"`
	Description string               `json:"description" validate:"max=2000"`
	Severity    string               `json:"severity" validate:"required,severity"`
	Lat         *float64             `json:"lat" validate:"required"`
	Lon         *float64             `json:"lon" validate:"required"`
	Timestamp   string               `json:"timestamp,omitempty"`
}

// UpvoteRequest - голос за существующую заявку
type UpvoteRequest struct {
	ID utils.FlexibleString `json:"id" validate:"required"`
}

// ClickRequest - клик по карте
type ClickRequest struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lon *float64 `json:"lon" validate:"required"`
}

// ViewportRequest - текущий центр и зум карты; любое поле можно опустить
type ViewportRequest struct {
	Lat  *float64 `json:"lat" validate:"required_with=Lon"`
	Lon  *float64 `json:"lon" validate:"required_with=Lat"`
	Zoom *int     `json:"zoom" validate:"omitempty,min=0,max=22"`
}

// SubmitRequest - поля формы; координаты берутся из выбора в сессии
type SubmitRequest struct {
	Name        string `json:"name" validate:"max=100"`
	Description string `json:"description" validate:"max=2000"`
	Severity    string `json:"severity" validate:"required,severity"`
}

// ViewerRequest - открыть просмотр уличного снимка
type ViewerRequest struct {
	ImageID utils.FlexibleString `json:"image_id" validate:"required"`
}

// StreetImagesQuery - параметры /api/v1/street-images
type StreetImagesQuery struct {
	BBox  string `query:"bbox"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=2000"`
}
