package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readstack/internal/analytics"
)

type StatsController struct {
	store BookStore
}

func NewStatsController(store BookStore) *StatsController {
	return &StatsController{
		store: store,
	}
}

// GetStats handles GET /api/stats. Statistics are computed on demand
// from the stored collection.
func (controller *StatsController) GetStats(c *gin.Context) {
	books, err := controller.store.List()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	stats := analytics.Calculate(books)
	c.IndentedJSON(http.StatusOK, stats)
}
