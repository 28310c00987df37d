// internal/handlers/navigation/navigation_handler.go
package navigation

import (
	"net/http"

	"ptieasy-service/internal/domain/navigation"
	"ptieasy-service/internal/middleware"
	"ptieasy-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type NavigationHandler struct{}

func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// Navigate resolves ?path= against the caller's auth state. Must run behind
// OptionalAuth.
func (h *NavigationHandler) Navigate(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		path = navigation.RouteRoot
	}

	state := middleware.GetAuthState(c)
	response.Success(c, http.StatusOK, "navigation resolved", gin.H{
		"decision": navigation.Resolve(path, state),
		"state":    state,
	})
}
