package models

import (
	"time"

	"github.com/google/uuid"
)

// Уровни серьёзности, указанные заявителем. Независимы от вычисляемого балла.
const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityCritical = "Critical"
)

// Статусы инцидента. Переходы однонаправленные: Pending -> Active -> Resolved.
const (
	StatusPending  = "Pending"
	StatusActive   = "Active"
	StatusResolved = "Resolved"
)

// UnassignedUnit - значение assigned_unit до ответа диспетчера
const UnassignedUnit = "unassigned"

// RiskLevelHigh - единственный уровень зоны риска в текущей модели
const RiskLevelHigh = "HIGH_RISK"

// Location - пара координат (широта, долгота)
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Incident представляет зарегистрированное сообщение о происшествии
type Incident struct {
	ID             uuid.UUID `json:"id"`
	Type           string    `json:"type"`
	Description    string    `json:"description"`
	Location       Location  `json:"location"`
	Severity       string    `json:"severity"`
	Timestamp      time.Time `json:"timestamp"`
	AssignedUnit   string    `json:"assigned_unit"`
	Status         string    `json:"status"`
	Score          int       `json:"score"`
	Recommendation string    `json:"recommendation"`
	Critical       bool      `json:"critical"`
}

// RiskZone представляет географическую зону повышенного риска.
// Зона создается один раз и далее не изменяется и не удаляется.
type RiskZone struct {
	Center       Location  `json:"center"`
	RadiusMeters int       `json:"radius_meters"`
	Level        string    `json:"level"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

// Stats - агрегированные счётчики по инцидентам
type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Resolved int `json:"resolved"`
	Critical int `json:"critical"`
}
