package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse структура ответа об ошибке
type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
}

// AbortWithError отвечает JSON-ошибкой и прерывает цепочку обработчиков
func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: GetRequestIDFromGin(c),
	})
}
