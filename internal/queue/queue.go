package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobType defines the type of job
type JobType string

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job represents a background job persisted in the database
type Job struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Type       JobType         `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Status     JobStatus       `json:"status" gorm:"index"`
	RetryCount int             `json:"retry_count" gorm:"default:0"`
	MaxRetries int             `json:"max_retries" gorm:"default:3"`
	NextRetry  *time.Time      `json:"next_retry,omitempty"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// JobHandler is a function that processes a job
type JobHandler func(ctx context.Context, job Job) error

// Enqueuer is the narrow interface services use to schedule background work
type Enqueuer interface {
	EnqueueJob(jobType JobType, payload interface{}) (string, error)
}

// Queue is a database-backed job queue with retries
type Queue struct {
	db       *gorm.DB
	handlers map[JobType]JobHandler
	quit     chan struct{}
	running  bool
}

// NewQueue creates a new queue and ensures its job table exists
func NewQueue(db *gorm.DB) (*Queue, error) {
	if err := db.AutoMigrate(&Job{}); err != nil {
		return nil, fmt.Errorf("failed to migrate job table: %w", err)
	}
	return &Queue{
		db:       db,
		handlers: make(map[JobType]JobHandler),
		quit:     make(chan struct{}),
	}, nil
}

// RegisterHandler registers a handler for a job type
func (q *Queue) RegisterHandler(jobType JobType, handler JobHandler) {
	q.handlers[jobType] = handler
}

// EnqueueJob adds a job to the queue
func (q *Queue) EnqueueJob(jobType JobType, payload interface{}) (string, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job payload: %w", err)
	}

	job := Job{
		ID:        uuid.New(),
		Type:      jobType,
		Payload:   payloadBytes,
		Status:    JobStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := q.db.Create(&job).Error; err != nil {
		return "", fmt.Errorf("failed to enqueue job: %w", err)
	}

	return job.ID.String(), nil
}

// GetJob retrieves a job by ID
func (q *Queue) GetJob(jobID string) (*Job, error) {
	var job Job
	err := q.db.Where("id = ?", jobID).First(&job).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("job not found")
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// StartProcessing starts processing jobs until Stop is called
func (q *Queue) StartProcessing() {
	if q.running {
		return
	}
	q.running = true

	go func() {
		for {
			select {
			case <-q.quit:
				return
			default:
			}

			var job Job
			err := q.db.
				Where("status = ? AND (next_retry IS NULL OR next_retry <= ?)", JobStatusPending, time.Now()).
				Order("created_at").
				First(&job).Error
			if err != nil {
				if err != gorm.ErrRecordNotFound {
					log.Printf("error getting job from queue: %v", err)
				}
				time.Sleep(1 * time.Second)
				continue
			}

			q.processJob(job)
		}
	}()
}

// Stop stops the processing loop
func (q *Queue) Stop() {
	if !q.running {
		return
	}
	q.running = false
	close(q.quit)
}

// ProcessPendingJobs processes every currently due pending job once. Used by
// tests and by the scheduler to drain the queue without the polling loop.
func (q *Queue) ProcessPendingJobs() error {
	var jobs []Job
	err := q.db.
		Where("status = ? AND (next_retry IS NULL OR next_retry <= ?)", JobStatusPending, time.Now()).
		Order("created_at").
		Find(&jobs).Error
	if err != nil {
		return fmt.Errorf("failed to list pending jobs: %w", err)
	}

	for _, job := range jobs {
		q.processJob(job)
	}
	return nil
}

func (q *Queue) processJob(job Job) {
	handler, ok := q.handlers[job.Type]
	if !ok {
		log.Printf("no handler registered for job type %s", job.Type)
		q.db.Model(&job).Updates(map[string]interface{}{
			"status": JobStatusFailed,
			"error":  "no handler registered",
		})
		return
	}

	if err := q.db.Model(&job).Update("status", JobStatusProcessing).Error; err != nil {
		log.Printf("failed to mark job %s processing: %v", job.ID, err)
		return
	}

	err := handler(context.Background(), job)
	if err != nil {
		q.handleFailure(job, err)
		return
	}

	if err := q.db.Model(&job).Update("status", JobStatusCompleted).Error; err != nil {
		log.Printf("failed to mark job %s completed: %v", job.ID, err)
	}
}

// handleFailure schedules a retry with exponential backoff, or marks the job
// failed once retries are exhausted
func (q *Queue) handleFailure(job Job, jobErr error) {
	retryCount := job.RetryCount + 1
	if retryCount > job.MaxRetries {
		log.Printf("job %s (%s) exceeded max retries: %v", job.ID, job.Type, jobErr)
		q.db.Model(&job).Updates(map[string]interface{}{
			"status": JobStatusFailed,
			"error":  jobErr.Error(),
		})
		return
	}

	backoff := time.Duration(math.Pow(2, float64(retryCount))) * 30 * time.Second
	nextRetry := time.Now().Add(backoff)
	log.Printf("job %s (%s) failed, retry %d/%d in %s: %v", job.ID, job.Type, retryCount, job.MaxRetries, backoff, jobErr)

	q.db.Model(&job).Updates(map[string]interface{}{
		"status":      JobStatusPending,
		"retry_count": retryCount,
		"next_retry":  &nextRetry,
		"error":       jobErr.Error(),
	})
}
