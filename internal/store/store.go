package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/shenikar/crisis_dispatch_system/internal/geo"
	"github.com/shenikar/crisis_dispatch_system/internal/models"
	"github.com/shenikar/crisis_dispatch_system/internal/scoring"
)

// Store - разделяемое состояние процесса: активные инциденты, зоны риска
// и счётчики. Авторитетно только на время жизни процесса; долговременное
// хранилище - внешний потребитель потока событий.
//
// Все методы безопасны для конкурентного вызова. Мутации возвращают копии,
// чтобы вызывающий код не имел доступа к внутреннему состоянию без блокировки.
type Store struct {
	mu       sync.RWMutex
	order    []uuid.UUID
	byID     map[uuid.UUID]*models.Incident
	zones    []models.RiskZone
	resolved map[uuid.UUID]struct{}
	index    *geo.Index
	stats    models.Stats
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		byID:     make(map[uuid.UUID]*models.Incident),
		resolved: make(map[uuid.UUID]struct{}),
		index:    geo.NewIndex(geo.TriggerRadiusMeters),
	}
}

// CountNeighbors возвращает число активных инцидентов строго ближе радиуса
// срабатывания к точке loc
func (s *Store) CountNeighbors(loc models.Location) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.CountWithin(loc, geo.TriggerRadiusMeters)
}

// AddIncident добавляет инцидент в активное множество
func (s *Store) AddIncident(inc models.Incident) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := inc
	s.order = append(s.order, stored.ID)
	s.byID[stored.ID] = &stored
	s.index.Insert(stored.ID, stored.Location)

	s.stats.Total++
	s.stats.Active++
	if stored.Critical {
		s.stats.Critical++
	}
}

// AddZone добавляет зону риска. Зоны не объединяются и не удаляются.
func (s *Store) AddZone(zone models.RiskZone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zones = append(s.zones, zone)
}

// Get возвращает копию активного инцидента
func (s *Store) Get(id uuid.UUID) (models.Incident, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inc, ok := s.byID[id]
	if !ok {
		return models.Incident{}, false
	}
	return *inc, true
}

// AssignUnit фиксирует назначенную единицу и переводит инцидент в Active
func (s *Store) AssignUnit(id uuid.UUID, unitID string) (models.Incident, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inc, ok := s.byID[id]
	if !ok {
		return models.Incident{}, false
	}

	inc.AssignedUnit = unitID
	inc.Status = models.StatusActive
	return *inc, true
}

// UpdateSeverity применяет административное изменение серьёзности вместе с
// пересчитанной оценкой. Статус инцидента при этом не меняется.
func (s *Store) UpdateSeverity(id uuid.UUID, severity string, assessment scoring.Assessment) (models.Incident, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inc, ok := s.byID[id]
	if !ok {
		return models.Incident{}, false
	}

	if inc.Critical != assessment.Critical {
		if assessment.Critical {
			s.stats.Critical++
		} else {
			s.stats.Critical--
		}
	}

	inc.Severity = severity
	inc.Score = assessment.Score
	inc.Recommendation = assessment.Recommendation
	inc.Critical = assessment.Critical
	return *inc, true
}

// Resolve переводит инцидент в Resolved и убирает его из активного множества.
// Решение необратимо и идемпотентно: повторный вызов или неизвестный ID
// возвращают false, и наблюдаемое состояние не меняется.
func (s *Store) Resolve(id uuid.UUID) (models.Incident, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, done := s.resolved[id]; done {
		return models.Incident{}, false
	}
	inc, ok := s.byID[id]
	if !ok {
		return models.Incident{}, false
	}

	inc.Status = models.StatusResolved
	delete(s.byID, id)
	s.resolved[id] = struct{}{}
	s.index.Remove(id)
	for i, ordered := range s.order {
		if ordered == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.stats.Active--
	s.stats.Resolved++
	if inc.Critical {
		s.stats.Critical--
	}
	return *inc, true
}

// Snapshot возвращает копию текущего состояния: активные инциденты в порядке
// поступления, все зоны риска и счётчики
func (s *Store) Snapshot() ([]models.Incident, []models.RiskZone, models.Stats) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	incidents := make([]models.Incident, 0, len(s.order))
	for _, id := range s.order {
		incidents = append(incidents, *s.byID[id])
	}
	zones := make([]models.RiskZone, len(s.zones))
	copy(zones, s.zones)

	return incidents, zones, s.stats
}

// Stats возвращает текущие счётчики
func (s *Store) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}
