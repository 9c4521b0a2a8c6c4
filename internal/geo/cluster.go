package geo

import (
	"fmt"
	"time"

	"github.com/shenikar/crisis_dispatch_system/internal/models"
)

// Параметры кластеризации. Зона образуется, когда у новой точки есть не менее
// TriggerNeighborCount уже существующих инцидентов строго ближе
// TriggerRadiusMeters; радиус самой зоны чуть шире радиуса срабатывания.
const (
	TriggerRadiusMeters  = 1000.0
	TriggerNeighborCount = 2
	ZoneRadiusMeters     = 1200
)

// DetectRiskZone проверяет, образует ли новая точка кластер инцидентов.
// neighbors - число уже существующих инцидентов строго ближе
// TriggerRadiusMeters; кандидат на момент подсчета еще не вставлен и сам
// не считается. Возвращает nil, если порог не достигнут. Перекрытие с
// существующими зонами не проверяется: зоны могут накапливаться и
// пересекаться.
func DetectRiskZone(candidate models.Location, incidentType string, neighbors int) *models.RiskZone {
	if neighbors < TriggerNeighborCount {
		return nil
	}

	return &models.RiskZone{
		Center:       candidate,
		RadiusMeters: ZoneRadiusMeters,
		Level:        models.RiskLevelHigh,
		Message:      fmt.Sprintf("DANGER: High frequency of %s detected here.", incidentType),
		CreatedAt:    time.Now().UTC(),
	}
}
