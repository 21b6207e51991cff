package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// handleServiceCreatedTask processes the service-created notification task.
//
// Steps:
//   - Parse the JSON payload from the Asynq task.
//   - Send the notification email to the configured recipient.
//   - Returning an error makes Asynq mark the task failed and retry.
func (j *JobService) handleServiceCreatedTask(ctx context.Context, t *asynq.Task) error {
	var p ServiceCreatedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal service created payload: %w", err)
	}

	j.logger.Info().
		Str("type", "service_created").
		Str("service_id", p.ServiceID).
		Str("agency_id", p.AgencyID).
		Msg("Processing service created notification task")

	err := j.emailClient.SendServiceCreatedEmail(j.notificationsEmail, p.ServiceName, p.AgencyID, p.CreatedBy)
	if err != nil {
		j.logger.Error().
			Str("type", "service_created").
			Str("service_id", p.ServiceID).
			Err(err).
			Msg("Failed to send service created notification")
		return err
	}

	j.logger.Info().
		Str("type", "service_created").
		Str("service_id", p.ServiceID).
		Msg("Successfully sent service created notification")

	return nil
}
