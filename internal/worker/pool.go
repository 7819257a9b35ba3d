package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/service"
)

const QueueAudit = "jobs:audit"

// AuditJob asks the pool to run a full audit pass for one tenant. Fleet-wide
// passes are expressed by enqueueing one job per tenant.
type AuditJob struct {
	TenantID string `json:"tenant_id"`
}

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueAudit pushes an audit job to Redis.
func (d *Dispatcher) EnqueueAudit(ctx context.Context, job AuditJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: "audit", Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueAudit, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the audit queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, audits service.AuditService, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, audits, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, audits service.AuditService, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueAudit).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, audits, result[1])
		}
	}
}

func processJob(ctx context.Context, audits service.AuditService, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal job")
		return
	}
	if job.Type != "audit" {
		log.Warn().Str("type", job.Type).Msg("unknown job type")
		return
	}

	var payload AuditJob
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal audit payload")
		return
	}
	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		log.Error().Str("tenant_id", payload.TenantID).Msg("audit job with invalid tenant id")
		return
	}

	report, err := audits.Run(ctx, tenantID)
	if err != nil {
		// Store failures abort the pass; the job stays reportable via logs.
		log.Error().Str("tenant_id", payload.TenantID).Err(err).Msg("audit pass failed")
		return
	}
	log.Info().
		Str("tenant_id", payload.TenantID).
		Str("run_id", report.RunID).
		Int("audited", report.Audited).
		Int("corrected", report.Corrected).
		Msg("background audit pass finished")
}
