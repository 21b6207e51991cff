package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskServiceCreated is the job type name stored in Redis.
	// Asynq uses task type strings to route to handlers.
	TaskServiceCreated = "notification:service_created"
)

// ServiceCreatedPayload is the JSON payload for the service-created
// notification task.
type ServiceCreatedPayload struct {
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	AgencyID    string `json:"agency_id"`
	CreatedBy   string `json:"created_by"`
}

// NewServiceCreatedTask constructs an Asynq task announcing a freshly
// created service.
//
// Task options:
//   - MaxRetry(3): retry up to 3 times on failure
//   - Queue("low"): notifications never compete with critical work
//   - Timeout(30s): kill the task if the handler runs longer
func NewServiceCreatedTask(serviceID, serviceName, agencyID, createdBy string) (*asynq.Task, error) {
	payload, err := json.Marshal(ServiceCreatedPayload{
		ServiceID:   serviceID,
		ServiceName: serviceName,
		AgencyID:    agencyID,
		CreatedBy:   createdBy,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskServiceCreated,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}
