package v1

import (
	"time"

	"github.com/google/uuid"
)

// LocationRequest - координаты в теле заявки. Указатели отличают
// отсутствующее поле от нулевой широты/долготы.
// @Description Координаты инцидента
type LocationRequest struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" validate:"required,longitude"`
}

// SubmitIncidentRequest DTO для подачи заявки об инциденте
// @Description DTO для подачи заявки об инциденте
type SubmitIncidentRequest struct {
	Type        string          `json:"type" validate:"required,min=2,max=255"`
	Description string          `json:"description" validate:"required"`
	Location    LocationRequest `json:"location"`
	Severity    string          `json:"severity" validate:"omitempty,oneof=Low Medium Critical"`
}

// ProcessingResponse DTO для подтверждения принятой заявки, когда подбор
// единицы еще выполняется
// @Description Подтверждение приема заявки
type ProcessingResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// LocationResponse DTO координат
type LocationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IncidentResponse DTO для ответа с полной записью инцидента
// @Description DTO для ответа с полной записью инцидента
type IncidentResponse struct {
	ID             uuid.UUID        `json:"id"`
	Type           string           `json:"type"`
	Description    string           `json:"description,omitempty"`
	Location       LocationResponse `json:"location"`
	Severity       string           `json:"severity"`
	Timestamp      time.Time        `json:"timestamp"`
	AssignedUnit   string           `json:"assigned_unit"`
	Status         string           `json:"status"`
	Score          int              `json:"score"`
	Recommendation string           `json:"recommendation"`
	Critical       bool             `json:"critical"`
}

// RiskZoneResponse DTO для зоны риска
// @Description DTO для зоны риска
type RiskZoneResponse struct {
	Center       LocationResponse `json:"center"`
	RadiusMeters int              `json:"radius_meters"`
	Level        string           `json:"level"`
	Message      string           `json:"message"`
	CreatedAt    time.Time        `json:"created_at"`
}

// StatsResponse DTO для счётчиков
// @Description DTO для счётчиков
type StatsResponse struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Resolved int `json:"resolved"`
	Critical int `json:"critical"`
}

// SnapshotResponse DTO полного текущего состояния (для сверки при переподключении)
// @Description Полное текущее состояние
type SnapshotResponse struct {
	Incidents []IncidentResponse `json:"incidents"`
	RiskZones []RiskZoneResponse `json:"risk_zones"`
	Stats     StatsResponse      `json:"stats"`
}
