package v1

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// intentMessage - входящее намерение клиента
type intentMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// updateThreatIntent - полезная нагрузка намерения update-threat
type updateThreatIntent struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
}

// Имена клиентских намерений
const (
	intentResolveIncident = "resolve-incident"
	intentUpdateThreat    = "update-threat"
)

// @Summary Subscribe to the realtime event stream
// @Description Upgrade to a websocket. The server pushes new-incident, new-risk-zone, incident-update, incident-resolved and stats-update events in emission order; the client may send resolve-incident and update-threat intents. No history is replayed: reconcile via GET /incidents.
// @Tags Events
// @Success 101 "Switching Protocols"
// @Failure 400 {object} map[string]string "Upgrade failed"
// @Router /ws [get]
func (h *Handler) serveWS(c *gin.Context) {
	log := h.logger.WithField("method", "serveWS")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to upgrade connection")
		return
	}
	defer conn.Close()

	sub := h.eventBus.Subscribe()
	defer h.eventBus.Unsubscribe(sub.ID)
	log = log.WithField("subscriber_id", sub.ID)

	// Читатель: принимает намерения клиента, пока соединение живо
	readClosed := make(chan struct{})
	go func() {
		defer close(readClosed)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			h.handleIntent(c, log, payload)
		}
	}()

	// Писатель: выталкивает события шины в порядке публикации
	for {
		select {
		case event := <-sub.Events:
			if err := conn.WriteJSON(event); err != nil {
				log.WithError(err).Debug("Subscriber write failed, closing connection")
				return
			}
		case <-sub.Done:
			// Шина отключила подписчика (например, за медлительность)
			return
		case <-readClosed:
			return
		}
	}
}

// handleIntent маршрутизирует намерение клиента в шлюз. Некорректное
// намерение логируется и игнорируется, соединение не разрывается.
func (h *Handler) handleIntent(c *gin.Context, log *logrus.Entry, payload []byte) {
	var msg intentMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.WithError(err).Warn("Malformed client intent")
		return
	}

	switch msg.Event {
	case intentResolveIncident:
		var rawID string
		if err := json.Unmarshal(msg.Data, &rawID); err != nil {
			log.WithError(err).Warn("Malformed resolve-incident intent")
			return
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			log.WithError(err).Warn("Invalid incident ID in resolve-incident intent")
			return
		}
		if err := h.incidentService.ResolveIncident(c.Request.Context(), id); err != nil {
			log.WithError(err).Error("Failed to resolve incident from intent")
		}

	case intentUpdateThreat:
		var intent updateThreatIntent
		if err := json.Unmarshal(msg.Data, &intent); err != nil {
			log.WithError(err).Warn("Malformed update-threat intent")
			return
		}
		id, err := uuid.Parse(intent.ID)
		if err != nil {
			log.WithError(err).Warn("Invalid incident ID in update-threat intent")
			return
		}
		if err := h.incidentService.UpdateSeverity(c.Request.Context(), id, intent.Severity); err != nil {
			log.WithError(err).Warn("Failed to update threat level from intent")
		}

	default:
		log.WithField("intent", msg.Event).Warn("Unknown client intent")
	}
}
