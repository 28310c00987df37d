// internal/middleware/recovery_middleware.go
package middleware

import (
	"net/http"
	"runtime/debug"

	"ptieasy-service/internal/domain/navigation"
	"ptieasy-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryActions tells the client how it may recover from a server fault.
type RecoveryActions struct {
	Actions   []string `json:"actions"`
	Dashboard string   `json:"dashboard"`
}

func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString("request_id")),
					zap.ByteString("stack", debug.Stack()),
				)
				response.Error(c, http.StatusInternalServerError, "something went wrong", nil, RecoveryActions{
					Actions:   []string{"reload", "dashboard"},
					Dashboard: navigation.RouteDashboard,
				})
			}
		}()
		c.Next()
	}
}
