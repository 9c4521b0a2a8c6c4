package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shenikar/crisis_dispatch_system/internal/bus"
	"github.com/shenikar/crisis_dispatch_system/internal/config"
	"github.com/shenikar/crisis_dispatch_system/internal/models"
	"github.com/shenikar/crisis_dispatch_system/internal/service"
	"github.com/shenikar/crisis_dispatch_system/internal/service/mocks"
)

// newTestHandler создает новый экземпляр Handler с мокированным сервисом
func newTestHandler(t *testing.T) (*Handler, *mocks.MockIncidentService, *bus.Bus, *gin.Engine) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockIncidentService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		FallbackUnit:     "Unit_Alpha",
		SubscriberBuffer: 16,
	}
	eventBus := bus.New(cfg.SubscriberBuffer, logger)

	handler := NewHandler(mockService, eventBus, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, mockService, eventBus, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func ptr(v float64) *float64 { return &v }

func submitBody() SubmitIncidentRequest {
	return SubmitIncidentRequest{
		Type:        "Fire",
		Description: "warehouse fire",
		Location:    LocationRequest{Lat: ptr(55.75), Lng: ptr(37.61)},
	}
}

func TestSubmitIncident_FallbackFinalRecord(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := submitBody()

	mockService.EXPECT().
		SubmitIncident(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident) (service.SubmitAck, error) {
			final := *inc
			final.ID = incidentID
			final.Severity = models.SeverityMedium
			final.Timestamp = time.Now().UTC()
			final.AssignedUnit = "Unit_Alpha"
			final.Status = models.StatusActive
			final.Score = 50
			final.Recommendation = "DISPATCH FIRE/EMS & ESTABLISH PERIMETER"
			return service.SubmitAck{Incident: final}, nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, "Unit_Alpha", resp.AssignedUnit)
	assert.Equal(t, models.StatusActive, resp.Status)
	assert.Equal(t, 50, resp.Score)
}

func TestSubmitIncident_ProcessingAck(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := submitBody()

	mockService.EXPECT().
		SubmitIncident(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident) (service.SubmitAck, error) {
			pending := *inc
			pending.ID = incidentID
			pending.Status = models.StatusPending
			pending.AssignedUnit = models.UnassignedUnit
			return service.SubmitAck{Incident: pending, Processing: true}, nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)

	// Внешний путь: клиент получает только подтверждение приема
	var resp ProcessingResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, "processing", resp.Status)
	assert.NotContains(t, w.Body.String(), "assigned_unit")
}

func TestSubmitIncident_InvalidJSON(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)

	mockService.EXPECT().SubmitIncident(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{"type": "Fire"`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestSubmitIncident_ValidationError(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)

	mockService.EXPECT().SubmitIncident(gomock.Any(), gomock.Any()).Times(0)

	testCases := []struct {
		name string
		body SubmitIncidentRequest
	}{
		{
			name: "missing type",
			body: SubmitIncidentRequest{
				Description: "no type",
				Location:    LocationRequest{Lat: ptr(10.0), Lng: ptr(20.0)},
			},
		},
		{
			name: "missing coordinates",
			body: SubmitIncidentRequest{
				Type:        "Fire",
				Description: "no location",
			},
		},
		{
			name: "latitude out of range",
			body: SubmitIncidentRequest{
				Type:        "Fire",
				Description: "bad latitude",
				Location:    LocationRequest{Lat: ptr(95.0), Lng: ptr(20.0)},
			},
		},
		{
			name: "unknown severity",
			body: SubmitIncidentRequest{
				Type:        "Fire",
				Description: "bad severity",
				Location:    LocationRequest{Lat: ptr(10.0), Lng: ptr(20.0)},
				Severity:    "Extreme",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bodyBytes, _ := json.Marshal(tc.body)
			w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSubmitIncident_ServiceValidationError(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	reqBody := submitBody()

	mockService.EXPECT().
		SubmitIncident(gomock.Any(), gomock.Any()).
		Return(service.SubmitAck{}, fmt.Errorf("%w: latitude out of range", service.ErrValidation)).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "latitude out of range")
}

func TestSubmitIncident_ServiceError(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	reqBody := submitBody()

	mockService.EXPECT().
		SubmitIncident(gomock.Any(), gomock.Any()).
		Return(service.SubmitAck{}, errors.New("boom")).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestGetSnapshot_Success(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)

	incidents := []models.Incident{
		{
			ID:           uuid.New(),
			Type:         "Fire",
			Description:  "warehouse fire",
			Location:     models.Location{Lat: 55.75, Lng: 37.61},
			Severity:     models.SeverityMedium,
			Timestamp:    time.Now().UTC(),
			AssignedUnit: "Unit_Alpha",
			Status:       models.StatusActive,
			Score:        50,
		},
	}
	zones := []models.RiskZone{
		{
			Center:       models.Location{Lat: 55.75, Lng: 37.61},
			RadiusMeters: 1200,
			Level:        models.RiskLevelHigh,
			Message:      "DANGER: High frequency of Fire detected here.",
			CreatedAt:    time.Now().UTC(),
		},
	}
	stats := models.Stats{Total: 1, Active: 1}

	mockService.EXPECT().Snapshot(gomock.Any()).Return(incidents, zones, stats).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp SnapshotResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.Len(t, resp.Incidents, 1)
	require.Len(t, resp.RiskZones, 1)
	assert.Equal(t, incidents[0].ID, resp.Incidents[0].ID)
	assert.Equal(t, models.RiskLevelHigh, resp.RiskZones[0].Level)
	assert.Equal(t, 1, resp.Stats.Total)
}

func TestGetStats_Success(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)

	mockService.EXPECT().
		Stats(gomock.Any()).
		Return(models.Stats{Total: 5, Active: 3, Resolved: 2, Critical: 1}).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/stats", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, 3, resp.Active)
	assert.Equal(t, 2, resp.Resolved)
	assert.Equal(t, 1, resp.Critical)
}

func TestHealthCheck(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

// dialWS поднимает тестовый сервер и открывает websocket-подключение к нему
func dialWS(t *testing.T, router *gin.Engine) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServeWS_ReceivesPublishedEvents(t *testing.T) {
	_, _, eventBus, router := newTestHandler(t)
	conn := dialWS(t, router)

	// Ждем регистрации подписчика перед публикацией
	require.Eventually(t, func() bool {
		return eventBus.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)

	incidentID := uuid.New()
	eventBus.Publish(bus.EventNewIncident, models.Incident{ID: incidentID, Type: "Fire"})
	eventBus.Publish(bus.EventStatsUpdate, models.Stats{Total: 1, Active: 1})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first bus.Event
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, bus.EventNewIncident, first.Event)

	var second bus.Event
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, bus.EventStatsUpdate, second.Event)
}

func TestServeWS_ResolveIntent(t *testing.T) {
	_, mockService, eventBus, router := newTestHandler(t)
	conn := dialWS(t, router)

	require.Eventually(t, func() bool {
		return eventBus.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)

	incidentID := uuid.New()
	resolved := make(chan uuid.UUID, 1)
	mockService.EXPECT().
		ResolveIncident(gomock.Any(), incidentID).
		DoAndReturn(func(_ context.Context, id uuid.UUID) error {
			resolved <- id
			return nil
		}).Times(1)

	intent := fmt.Sprintf(`{"event": "resolve-incident", "data": %q}`, incidentID.String())
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(intent)))

	select {
	case id := <-resolved:
		assert.Equal(t, incidentID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("resolve-incident intent was not delivered to the service")
	}
}

func TestServeWS_UpdateThreatIntent(t *testing.T) {
	_, mockService, eventBus, router := newTestHandler(t)
	conn := dialWS(t, router)

	require.Eventually(t, func() bool {
		return eventBus.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)

	incidentID := uuid.New()
	updated := make(chan string, 1)
	mockService.EXPECT().
		UpdateSeverity(gomock.Any(), incidentID, models.SeverityCritical).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, severity string) error {
			updated <- severity
			return nil
		}).Times(1)

	intent := fmt.Sprintf(`{"event": "update-threat", "data": {"id": %q, "severity": "Critical"}}`, incidentID.String())
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(intent)))

	select {
	case severity := <-updated:
		assert.Equal(t, models.SeverityCritical, severity)
	case <-time.After(2 * time.Second):
		t.Fatal("update-threat intent was not delivered to the service")
	}
}

func TestServeWS_MalformedIntentIgnored(t *testing.T) {
	_, mockService, eventBus, router := newTestHandler(t)
	conn := dialWS(t, router)

	require.Eventually(t, func() bool {
		return eventBus.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)

	mockService.EXPECT().ResolveIncident(gomock.Any(), gomock.Any()).Times(0)
	mockService.EXPECT().UpdateSeverity(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event": "resolve-incident", "data": "not-a-uuid"}`)))

	// Соединение остается живым: опубликованное событие все еще доставляется
	eventBus.Publish(bus.EventStatsUpdate, models.Stats{Total: 1})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event bus.Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, bus.EventStatsUpdate, event.Event)
}
