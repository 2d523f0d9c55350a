package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	pinger    Pinger
	scheduler SchedulerStatus
	version   string
}

func NewHealthController(pinger Pinger, scheduler SchedulerStatus, version string) *HealthController {
	return &HealthController{
		pinger:    pinger,
		scheduler: scheduler,
		version:   version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.pinger != nil {
		if err := h.pinger.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.scheduler != nil {
		if h.scheduler.IsRunning() {
			if next := h.scheduler.NextRunTime(); next != nil {
				checks["enrichment_scheduler"] = "next sweep at " + next.UTC().Format(time.RFC3339)
			} else {
				checks["enrichment_scheduler"] = "running"
			}
		} else {
			checks["enrichment_scheduler"] = "stopped"
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
