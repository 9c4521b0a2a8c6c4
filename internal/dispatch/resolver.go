package dispatch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/crisis_dispatch_system/internal/config"
	"github.com/shenikar/crisis_dispatch_system/internal/models"
)

// ErrNoOutput возвращается, когда процесс-матчер завершился, не выдав ни одной строки
var ErrNoOutput = errors.New("matcher produced no output")

// Resolver определяет контракт подбора реагирующей единицы для инцидента
type Resolver interface {
	Resolve(ctx context.Context, loc models.Location, severityScore int) (string, error)
}

// ExternalResolver запускает внешний процесс-матчер на каждый запрос.
// Протокол: одна строка "<lat> <lng> <score>\n" на stdin, одна строка
// с идентификатором единицы на stdout. Повторных попыток нет - ровно
// один запуск на инцидент.
type ExternalResolver struct {
	matcherPath string
	timeout     time.Duration
	logger      *logrus.Logger
}

// NewExternalResolver создает резолвер поверх внешнего матчера
func NewExternalResolver(cfg *config.Config, logger *logrus.Logger) *ExternalResolver {
	return &ExternalResolver{
		matcherPath: cfg.MatcherPath,
		timeout:     cfg.MatcherTimeout,
		logger:      logger,
	}
}

// Resolve запускает матчер и читает подобранную единицу. Ответом считается
// первая строка stdout: медленно завершающийся, но ответивший процесс не
// теряет свое назначение. Зависший или упавший процесс обрывается по
// дедлайну контекста, что закрывает канал и снимает чтение.
func (r *ExternalResolver) Resolve(ctx context.Context, loc models.Location, severityScore int) (string, error) {
	log := r.logger.WithFields(logrus.Fields{
		"component": "dispatch",
		"matcher":   r.matcherPath,
	})

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.matcherPath)
	cmd.Stdin = strings.NewReader(fmt.Sprintf("%v %v %d\n", loc.Lat, loc.Lng, severityScore))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("matcher failed: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("matcher failed: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	unitID := ""
	if scanner.Scan() {
		unitID = strings.TrimSpace(scanner.Text())
	}

	if unitID == "" {
		// Ответа не было: различаем дедлайн, сбой процесса и пустой вывод
		waitErr := cmd.Wait()
		if ctx.Err() != nil {
			return "", fmt.Errorf("matcher timed out: %w", ctx.Err())
		}
		if waitErr != nil {
			return "", fmt.Errorf("matcher failed: %w", waitErr)
		}
		return "", ErrNoOutput
	}

	// Процесс дорабатывает в фоне и будет снят по дедлайну
	go func() { _ = cmd.Wait() }()

	log.WithField("unit_id", unitID).Debug("Matcher resolved unit")
	return unitID, nil
}

// FallbackResolver назначает фиксированную единицу без внешнего процесса
type FallbackResolver struct {
	unitID string
}

// NewFallbackResolver создает резолвер с фиксированной единицей
func NewFallbackResolver(unitID string) *FallbackResolver {
	return &FallbackResolver{unitID: unitID}
}

// Resolve всегда возвращает настроенную единицу
func (r *FallbackResolver) Resolve(_ context.Context, _ models.Location, _ int) (string, error) {
	return r.unitID, nil
}

// MatcherAvailable проверяет наличие исполняемого файла матчера
func MatcherAvailable(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// NewResolver выбирает стратегию по доступности матчера на старте сервиса
func NewResolver(cfg *config.Config, logger *logrus.Logger) Resolver {
	if MatcherAvailable(cfg.MatcherPath) {
		logger.WithField("matcher", cfg.MatcherPath).Info("External matcher found, using external resolver")
		return NewExternalResolver(cfg, logger)
	}
	logger.WithField("fallback_unit", cfg.FallbackUnit).Warn("External matcher not found, using fallback resolver")
	return NewFallbackResolver(cfg.FallbackUnit)
}
