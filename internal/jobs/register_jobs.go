package jobs

import (
	"github.com/sokohub/backend/internal/queue"
	"github.com/sokohub/backend/internal/services/earnings"
)

// RegisterAllJobHandlers registers all job handlers with the queue
func RegisterAllJobHandlers(q *queue.Queue, earningsSvc *earnings.Service) {
	RegisterMarketerEarningsJobHandlers(q, earningsSvc)
}
