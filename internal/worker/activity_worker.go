package worker

import (
	"github.com/spec-kit/mes-service/internal/service"
)

// StartActivityWorker registers operation log handlers.
func StartActivityWorker(activityService *service.ActivityService) {
	if activityService == nil {
		return
	}
	activityService.RegisterHandlers()
}
