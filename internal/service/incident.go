package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/crisis_dispatch_system/internal/bus"
	"github.com/shenikar/crisis_dispatch_system/internal/config"
	"github.com/shenikar/crisis_dispatch_system/internal/dispatch"
	"github.com/shenikar/crisis_dispatch_system/internal/geo"
	"github.com/shenikar/crisis_dispatch_system/internal/models"
	"github.com/shenikar/crisis_dispatch_system/internal/scoring"
	"github.com/shenikar/crisis_dispatch_system/internal/store"
)

// ErrValidation помечает отклоненную заявку: такая заявка не попадает в хранилище
var ErrValidation = errors.New("validation failed")

// SubmitAck - синхронный ответ на подачу заявки. При Processing=true финальное
// назначение придет событием по шине; иначе Incident уже содержит итоговое
// состояние.
type SubmitAck struct {
	Incident   models.Incident
	Processing bool
}

// IncidentService определяет контракт шлюза приема инцидентов
type IncidentService interface {
	SubmitIncident(ctx context.Context, inc *models.Incident) (SubmitAck, error)
	UpdateSeverity(ctx context.Context, id uuid.UUID, severity string) error
	ResolveIncident(ctx context.Context, id uuid.UUID) error
	Snapshot(ctx context.Context) ([]models.Incident, []models.RiskZone, models.Stats)
	Stats(ctx context.Context) models.Stats
	// Wait дожидается завершения фоновых назначений (graceful shutdown)
	Wait()
}

type incidentService struct {
	store    *store.Store
	resolver dispatch.Resolver
	eventBus *bus.Bus
	logger   *logrus.Logger
	cfg      *config.Config

	// submitMu сериализует пару "подсчет соседей + вставка", иначе две
	// конкурентные заявки могут увидеть одно и то же состояние "до" и
	// потерять срабатывание зоны риска
	submitMu sync.Mutex

	// syncResolve: резервная стратегия отвечает мгновенно, поэтому заявитель
	// получает итоговое состояние синхронно, без ожидания по шине
	syncResolve bool

	wg sync.WaitGroup
}

// NewIncidentService создает шлюз приема инцидентов
func NewIncidentService(s *store.Store, resolver dispatch.Resolver, eventBus *bus.Bus, logger *logrus.Logger, cfg *config.Config) IncidentService {
	_, isFallback := resolver.(*dispatch.FallbackResolver)
	return &incidentService{
		store:       s,
		resolver:    resolver,
		eventBus:    eventBus,
		logger:      logger,
		cfg:         cfg,
		syncResolve: isFallback,
	}
}

func validateIncident(inc *models.Incident) error {
	if strings.TrimSpace(inc.Type) == "" {
		return fmt.Errorf("%w: type is required", ErrValidation)
	}
	if strings.TrimSpace(inc.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if inc.Location.Lat < -90 || inc.Location.Lat > 90 {
		return fmt.Errorf("%w: latitude out of range", ErrValidation)
	}
	if inc.Location.Lng < -180 || inc.Location.Lng > 180 {
		return fmt.Errorf("%w: longitude out of range", ErrValidation)
	}
	switch inc.Severity {
	case models.SeverityLow, models.SeverityMedium, models.SeverityCritical:
	case "":
		inc.Severity = models.SeverityMedium
	default:
		return fmt.Errorf("%w: unknown severity %q", ErrValidation, inc.Severity)
	}
	return nil
}

// SubmitIncident проводит заявку через весь конвейер: валидация, оценка,
// кластеризация, фиксация в хранилище, подбор единицы, рассылка событий
func (s *incidentService) SubmitIncident(ctx context.Context, inc *models.Incident) (SubmitAck, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "SubmitIncident",
		"type":    inc.Type,
	})

	if err := validateIncident(inc); err != nil {
		log.WithError(err).Warn("Incident submission rejected")
		return SubmitAck{}, err
	}

	inc.ID = uuid.New()
	inc.Timestamp = time.Now().UTC()
	inc.Status = models.StatusPending
	inc.AssignedUnit = models.UnassignedUnit

	assessment := scoring.Analyze(inc.Type, inc.Description)
	inc.Score = assessment.Score
	inc.Recommendation = assessment.Recommendation
	inc.Critical = assessment.Critical

	log = log.WithFields(logrus.Fields{"incident_id": inc.ID, "score": inc.Score})

	// Подсчет соседей и вставка выполняются под одним замком: проверка идет
	// по состоянию "до" вставки новой точки
	s.submitMu.Lock()
	neighbors := s.store.CountNeighbors(inc.Location)
	if zone := geo.DetectRiskZone(inc.Location, inc.Type, neighbors); zone != nil {
		s.store.AddZone(*zone)
		s.eventBus.Publish(bus.EventNewRiskZone, *zone)
		log.WithField("neighbors", neighbors).Warn("New risk zone detected")
	}
	s.store.AddIncident(*inc)
	s.submitMu.Unlock()

	if s.syncResolve {
		// Резервная стратегия: назначение известно до ответа заявителю
		unitID, err := s.resolver.Resolve(ctx, inc.Location, inc.Score)
		if err != nil {
			// Резервный резолвер не возвращает ошибок; страхуемся на случай
			// подмены стратегии в конфигурации
			unitID = s.cfg.FallbackUnit
		}
		final := s.commitAssignment(inc.ID, unitID)
		log.WithField("unit_id", unitID).Info("Incident submitted and dispatched")
		return SubmitAck{Incident: final}, nil
	}

	s.wg.Add(1)
	go s.dispatchAsync(inc.ID, inc.Location, inc.Score)

	log.Info("Incident submitted, dispatch in progress")
	return SubmitAck{Incident: *inc, Processing: true}, nil
}

// dispatchAsync доводит инцидент до назначения в фоне. Ровно один запуск
// матчера на инцидент; при любом его сбое применяется фиксированная единица,
// так что событие завершения публикуется всегда.
func (s *incidentService) dispatchAsync(id uuid.UUID, loc models.Location, score int) {
	defer s.wg.Done()
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "dispatchAsync",
		"incident_id": id,
	})

	// Контекст запроса к этому моменту уже завершен, дедлайн держит резолвер
	unitID, err := s.resolver.Resolve(context.Background(), loc, score)
	if err != nil {
		log.WithError(err).Error("External matcher failed, assigning fallback unit")
		unitID = s.cfg.FallbackUnit
	}

	s.commitAssignment(id, unitID)
	log.WithField("unit_id", unitID).Info("Incident dispatched")
}

// commitAssignment фиксирует назначение и публикует события завершения
func (s *incidentService) commitAssignment(id uuid.UUID, unitID string) models.Incident {
	final, ok := s.store.AssignUnit(id, unitID)
	if !ok {
		// Инцидент успели решить до прихода назначения
		return models.Incident{ID: id, Status: models.StatusResolved}
	}
	s.eventBus.Publish(bus.EventNewIncident, final)
	s.eventBus.Publish(bus.EventStatsUpdate, s.store.Stats())
	return final
}

// UpdateSeverity применяет административное изменение уровня угрозы.
// Неизвестный или уже решенный ID поглощается как no-op.
func (s *incidentService) UpdateSeverity(ctx context.Context, id uuid.UUID, severity string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateSeverity",
		"incident_id": id,
		"severity":    severity,
	})

	switch severity {
	case models.SeverityLow, models.SeverityMedium, models.SeverityCritical:
	default:
		return fmt.Errorf("%w: unknown severity %q", ErrValidation, severity)
	}

	existing, ok := s.store.Get(id)
	if !ok {
		log.Warn("Severity update for unknown incident ignored")
		return nil
	}

	assessment := scoring.Analyze(existing.Type, existing.Description)
	updated, ok := s.store.UpdateSeverity(id, severity, assessment)
	if !ok {
		return nil
	}

	s.eventBus.Publish(bus.EventIncidentUpdate, updated)
	s.eventBus.Publish(bus.EventStatsUpdate, s.store.Stats())
	log.Info("Threat level changed")
	return nil
}

// ResolveIncident закрывает инцидент. Идемпотентен: повторное решение или
// неизвестный ID не порождают ни ошибок, ни событий.
func (s *incidentService) ResolveIncident(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "ResolveIncident",
		"incident_id": id,
	})

	if _, ok := s.store.Resolve(id); !ok {
		log.Debug("Resolve for unknown or already resolved incident ignored")
		return nil
	}

	s.eventBus.Publish(bus.EventIncidentResolved, id.String())
	s.eventBus.Publish(bus.EventStatsUpdate, s.store.Stats())
	log.Info("Incident resolved")
	return nil
}

// Snapshot возвращает полное текущее состояние для сверки при переподключении
func (s *incidentService) Snapshot(ctx context.Context) ([]models.Incident, []models.RiskZone, models.Stats) {
	return s.store.Snapshot()
}

// Stats возвращает текущие счётчики
func (s *incidentService) Stats(ctx context.Context) models.Stats {
	return s.store.Stats()
}

// Wait дожидается завершения фоновых назначений
func (s *incidentService) Wait() {
	s.wg.Wait()
}
