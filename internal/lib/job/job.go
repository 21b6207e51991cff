// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - Tasks are enqueued (producer) using asynq.Client.
//   - A server runs workers that process those tasks (consumer) using
//     asynq.Server.
package job

import (
	"github.com/deppfellow/agencyhub/internal/config"
	"github.com/deppfellow/agencyhub/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// JobService holds the Asynq client (enqueue) and server (worker
// execution), plus the dependencies handlers need.
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	// server runs worker processes that pull tasks from Redis and execute
	// handlers.
	server *asynq.Server

	// emailClient is used by notification handlers. Held as a field, not
	// package state, so handlers cannot run with uninitialized deps.
	emailClient *email.Client

	// notificationsEmail is the recipient for catalog notifications.
	notificationsEmail string

	logger *zerolog.Logger
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// Queue weights distribute worker share by ratio: out of 10 concurrent
// tasks, roughly 6 can be critical, 3 default, 1 low.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client:             client,
		server:             server,
		emailClient:        email.NewClient(cfg, logger),
		notificationsEmail: cfg.Integration.NotificationsEmail,
		logger:             logger,
	}
}

// Start registers task handlers and starts the background worker server.
func (j *JobService) Start() error {
	// ServeMux routes task type strings to handler functions, like HTTP
	// routing but for job types.
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskServiceCreated, j.handleServiceCreatedTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop gracefully stops the job server and closes client resources.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}
