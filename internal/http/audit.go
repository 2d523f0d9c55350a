package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readstack/internal/entities"
)

type AuditController struct {
	reader AuditReader
}

func NewAuditController(reader AuditReader) *AuditController {
	return &AuditController{
		reader: reader,
	}
}

// GetEvents handles GET /api/audit. Supports ?type=, ?limit= and
// ?offset= query parameters; events come back newest first.
func (controller *AuditController) GetEvents(c *gin.Context) {
	limit := parsePositiveInt(c.Query("limit"), 50)
	offset := parsePositiveInt(c.Query("offset"), 0)

	var (
		events []entities.AuditEvent
		total  int64
		err    error
	)

	if eventType := c.Query("type"); eventType != "" {
		events, total, err = controller.reader.GetEventsByType(entities.AuditEventType(eventType), limit, offset)
	} else {
		events, total, err = controller.reader.GetEvents(limit, offset)
	}
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
