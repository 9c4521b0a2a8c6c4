package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/crisis_dispatch_system/internal/bus"
	"github.com/shenikar/crisis_dispatch_system/internal/config"
	"github.com/shenikar/crisis_dispatch_system/internal/service"
)

type Handler struct {
	incidentService service.IncidentService
	eventBus        *bus.Bus
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
	upgrader        websocket.Upgrader
}

func NewHandler(incidentService service.IncidentService, eventBus *bus.Bus, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		eventBus:        eventBus,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Внешние поверхности (карта, формы) живут на других хостах
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// @Summary Submit a new incident report
// @Description Submit an incident report. With an external matcher the response only acknowledges receipt and the final assignment arrives over the event stream; with the fallback strategy the response already contains the assigned unit.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param incident body SubmitIncidentRequest true "Incident submission request"
// @Success 201 {object} IncidentResponse "Fallback path: final record"
// @Success 201 {object} ProcessingResponse "External path: processing acknowledgement"
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) submitIncident(c *gin.Context) {
	var input SubmitIncidentRequest
	log := h.logger.WithField("method", "submitIncident")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToIncidentModel(input)
	ack, err := h.incidentService.SubmitIncident(c.Request.Context(), model)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			log.WithError(err).Warn("Incident rejected by service")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to submit incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if ack.Processing {
		c.JSON(http.StatusCreated, ProcessingResponse{ID: ack.Incident.ID, Status: "processing"})
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(ack.Incident))
}

// @Summary Get the full current snapshot
// @Description Get all active incidents, risk zones and counters. Used by observers to reconcile after (re)connecting to the event stream.
// @Tags Incidents
// @Accept json
// @Produce json
// @Success 200 {object} SnapshotResponse
// @Router /incidents [get]
func (h *Handler) getSnapshot(c *gin.Context) {
	incidents, zones, stats := h.incidentService.Snapshot(c.Request.Context())
	c.JSON(http.StatusOK, ModelsToSnapshotResponse(incidents, zones, stats))
}

// @Summary Get incident counters
// @Description Get aggregate incident counters.
// @Tags Incidents
// @Accept json
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /incidents/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, ModelToStatsResponse(h.incidentService.Stats(c.Request.Context())))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
