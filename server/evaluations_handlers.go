package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sqeperf/database"
	"sqeperf/diagnostics"
	"sqeperf/server/middleware"
)

// AccumulatedResponse ответ /api/evaluations/accumulated/:year
type AccumulatedResponse struct {
	Year          int                   `json:"year"`
	DataType      string                `json:"dataType"`
	Evaluations   []database.Evaluation `json:"evaluations"`
	DetailCount   int                   `json:"detailCount"`
	TotalEntities int                   `json:"totalEntities"`
	AllEntities   int                   `json:"allEntities"`
}

// handleAccumulated считает totalEntities теми же шагами, что и диагностика
// @Summary Accumulated evaluations of a year
// @Tags evaluations
// @Produce json
// @Param year path int true "Calendar year of evaluation start dates"
// @Param type query string false "Detail data_type tag" default(purchase)
// @Success 200 {object} AccumulatedResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 429 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /api/evaluations/accumulated/{year} [get]
func (s *Server) handleAccumulated(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1900 || year > 9998 {
		middleware.AbortWithError(c, http.StatusBadRequest, "Invalid year: "+c.Param("year"))
		return
	}

	dataType := strings.TrimSpace(c.DefaultQuery("type", s.cfg.DataType))
	if dataType == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "Query parameter type must not be empty")
		return
	}

	res, err := diagnostics.NewRunner(s.store, io.Discard, year, dataType, s.logger).
		WithSummaryLevel(zapcore.DebugLevel).
		Run(c.Request.Context())
	if err != nil {
		s.logger.Error("accumulated evaluation query failed",
			zap.Error(err),
			zap.String("request_id", middleware.GetRequestIDFromGin(c)),
		)
		middleware.AbortWithError(c, http.StatusInternalServerError, "Failed to query evaluations")
		return
	}
	s.metrics.SetTotalEntities(year, dataType, res.TotalEntities)

	c.JSON(http.StatusOK, AccumulatedResponse{
		Year:          res.Year,
		DataType:      res.DataType,
		Evaluations:   res.Evaluations,
		DetailCount:   len(res.Details),
		TotalEntities: res.TotalEntities,
		AllEntities:   res.AllEntities,
	})
}

// handleHealth проверяет подключение к БД
// @Summary Evaluations database availability
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
