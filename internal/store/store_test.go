package store

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/crisis_dispatch_system/internal/models"
	"github.com/shenikar/crisis_dispatch_system/internal/scoring"
)

func newIncident(lat, lng float64, critical bool) models.Incident {
	return models.Incident{
		ID:       uuid.New(),
		Type:     "Fire",
		Location: models.Location{Lat: lat, Lng: lng},
		Severity: models.SeverityMedium,
		Status:   models.StatusPending,
		Critical: critical,
	}
}

func TestStore_AddAndSnapshotOrder(t *testing.T) {
	s := New()
	first := newIncident(10, 10, false)
	second := newIncident(20, 20, true)

	s.AddIncident(first)
	s.AddIncident(second)

	incidents, zones, stats := s.Snapshot()
	require.Len(t, incidents, 2)
	assert.Equal(t, first.ID, incidents[0].ID)
	assert.Equal(t, second.ID, incidents[1].ID)
	assert.Empty(t, zones)
	assert.Equal(t, models.Stats{Total: 2, Active: 2, Critical: 1}, stats)
}

func TestStore_CountNeighbors_ExcludesCandidate(t *testing.T) {
	s := New()
	center := models.Location{Lat: 40.7128, Lng: -74.006}

	// Кандидат еще не вставлен - соседей нет
	assert.Zero(t, s.CountNeighbors(center))

	s.AddIncident(models.Incident{ID: uuid.New(), Location: center})
	s.AddIncident(models.Incident{ID: uuid.New(), Location: models.Location{Lat: center.Lat + 0.003, Lng: center.Lng}})

	assert.Equal(t, 2, s.CountNeighbors(center))
}

func TestStore_AssignUnit(t *testing.T) {
	s := New()
	inc := newIncident(10, 10, false)
	s.AddIncident(inc)

	updated, ok := s.AssignUnit(inc.ID, "Unit_Bravo")

	require.True(t, ok)
	assert.Equal(t, "Unit_Bravo", updated.AssignedUnit)
	assert.Equal(t, models.StatusActive, updated.Status)

	_, ok = s.AssignUnit(uuid.New(), "Unit_Bravo")
	assert.False(t, ok)
}

func TestStore_UpdateSeverity_AdjustsCriticalCounter(t *testing.T) {
	s := New()
	inc := newIncident(10, 10, false)
	s.AddIncident(inc)
	require.Zero(t, s.Stats().Critical)

	updated, ok := s.UpdateSeverity(inc.ID, models.SeverityCritical, scoring.Assessment{
		Score:          95,
		Recommendation: scoring.RecommendationCritical,
		Critical:       true,
	})

	require.True(t, ok)
	assert.Equal(t, models.SeverityCritical, updated.Severity)
	assert.Equal(t, 95, updated.Score)
	assert.True(t, updated.Critical)
	// Статус при изменении серьёзности не меняется
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.Equal(t, 1, s.Stats().Critical)

	// Обратное понижение возвращает счётчик
	_, ok = s.UpdateSeverity(inc.ID, models.SeverityLow, scoring.Assessment{Score: 30})
	require.True(t, ok)
	assert.Zero(t, s.Stats().Critical)
}

func TestStore_ResolveIdempotent(t *testing.T) {
	s := New()
	inc := newIncident(10, 10, true)
	s.AddIncident(inc)

	resolved, ok := s.Resolve(inc.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusResolved, resolved.Status)

	// Повторное решение и неизвестный ID - no-op
	_, ok = s.Resolve(inc.ID)
	assert.False(t, ok)
	_, ok = s.Resolve(uuid.New())
	assert.False(t, ok)

	incidents, _, stats := s.Snapshot()
	assert.Empty(t, incidents)
	assert.Equal(t, models.Stats{Total: 1, Active: 0, Resolved: 1, Critical: 0}, stats)

	// Решенный инцидент перестает считаться соседом
	assert.Zero(t, s.CountNeighbors(inc.Location))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inc := newIncident(float64(i)*0.1, float64(i)*0.1, false)
			s.AddIncident(inc)
			s.AssignUnit(inc.ID, "Unit_Alpha")
			s.Snapshot()
			if i%2 == 0 {
				s.Resolve(inc.ID)
			}
		}(i)
	}
	wg.Wait()

	stats := s.Stats()
	assert.Equal(t, 50, stats.Total)
	assert.Equal(t, 25, stats.Active)
	assert.Equal(t, 25, stats.Resolved)
}
