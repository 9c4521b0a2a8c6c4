package v1

import "github.com/shenikar/crisis_dispatch_system/internal/models"

// DTOToIncidentModel преобразует DTO подачи заявки в доменную модель
func DTOToIncidentModel(dto SubmitIncidentRequest) *models.Incident {
	inc := &models.Incident{
		Type:        dto.Type,
		Description: dto.Description,
		Severity:    dto.Severity,
	}
	if dto.Location.Lat != nil {
		inc.Location.Lat = *dto.Location.Lat
	}
	if dto.Location.Lng != nil {
		inc.Location.Lng = *dto.Location.Lng
	}
	return inc
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model models.Incident) IncidentResponse {
	return IncidentResponse{
		ID:             model.ID,
		Type:           model.Type,
		Description:    model.Description,
		Location:       LocationResponse{Lat: model.Location.Lat, Lng: model.Location.Lng},
		Severity:       model.Severity,
		Timestamp:      model.Timestamp,
		AssignedUnit:   model.AssignedUnit,
		Status:         model.Status,
		Score:          model.Score,
		Recommendation: model.Recommendation,
		Critical:       model.Critical,
	}
}

// ModelToZoneResponse преобразует зону риска в DTO для ответа
func ModelToZoneResponse(model models.RiskZone) RiskZoneResponse {
	return RiskZoneResponse{
		Center:       LocationResponse{Lat: model.Center.Lat, Lng: model.Center.Lng},
		RadiusMeters: model.RadiusMeters,
		Level:        model.Level,
		Message:      model.Message,
		CreatedAt:    model.CreatedAt,
	}
}

// ModelToStatsResponse преобразует счётчики в DTO для ответа
func ModelToStatsResponse(model models.Stats) StatsResponse {
	return StatsResponse{
		Total:    model.Total,
		Active:   model.Active,
		Resolved: model.Resolved,
		Critical: model.Critical,
	}
}

// ModelsToSnapshotResponse собирает DTO полного состояния
func ModelsToSnapshotResponse(incidents []models.Incident, zones []models.RiskZone, stats models.Stats) SnapshotResponse {
	resp := SnapshotResponse{
		Incidents: make([]IncidentResponse, len(incidents)),
		RiskZones: make([]RiskZoneResponse, len(zones)),
		Stats:     ModelToStatsResponse(stats),
	}
	for i, inc := range incidents {
		resp.Incidents[i] = ModelToIncidentResponse(inc)
	}
	for i, zone := range zones {
		resp.RiskZones[i] = ModelToZoneResponse(zone)
	}
	return resp
}
