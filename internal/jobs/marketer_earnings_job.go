package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/queue"
	"github.com/sokohub/backend/internal/services/earnings"
)

// MarketerEarningsJobType is the job type for crediting referral commission
const MarketerEarningsJobType queue.JobType = "credit_marketer_earnings"

// MarketerEarningsPayload is the payload for a marketer earnings job
type MarketerEarningsPayload struct {
	AdID   uuid.UUID `json:"ad_id"`
	Amount int64     `json:"amount"`
}

// MarketerEarningsJob credits referral commission after an ad payment settles
type MarketerEarningsJob struct {
	earningsSvc *earnings.Service
}

// NewMarketerEarningsJob creates a new marketer earnings job handler
func NewMarketerEarningsJob(earningsSvc *earnings.Service) *MarketerEarningsJob {
	return &MarketerEarningsJob{earningsSvc: earningsSvc}
}

// RegisterMarketerEarningsJobHandlers registers the earnings job handler
func RegisterMarketerEarningsJobHandlers(q *queue.Queue, earningsSvc *earnings.Service) {
	handler := NewMarketerEarningsJob(earningsSvc)
	q.RegisterHandler(MarketerEarningsJobType, handler.Process)
}

// EnqueueMarketerEarnings schedules commission crediting for a settled ad payment
func EnqueueMarketerEarnings(q queue.Enqueuer, adID uuid.UUID, amount int64) error {
	_, err := q.EnqueueJob(MarketerEarningsJobType, MarketerEarningsPayload{
		AdID:   adID,
		Amount: amount,
	})
	return err
}

// Process handles a marketer earnings job
func (j *MarketerEarningsJob) Process(ctx context.Context, job queue.Job) error {
	var payload MarketerEarningsPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal marketer earnings payload: %w", err)
	}

	return j.earningsSvc.CreditForAd(ctx, payload.AdID, payload.Amount)
}
