package tasks

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypePricelist     = "pricelist"
	TypeCustomerStats = "customer_stats"
)

// Task is the payload carried by one stream entry.
type Task struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Values flattens the task into stream fields.
func (t Task) Values() map[string]any {
	return map[string]any{
		"id":          t.ID,
		"type":        t.Type,
		"enqueued_at": t.EnqueuedAt.UTC().Format(time.RFC3339),
	}
}

func decodePayload(values map[string]any) (Task, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return Task{}, err
	}
	var task Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return Task{}, err
	}
	if task.Type == "" {
		return Task{}, fmt.Errorf("missing task type")
	}
	return task, nil
}
