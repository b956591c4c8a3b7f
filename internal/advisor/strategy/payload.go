package strategy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TaskPayload is the optional JSON payload of a scheduled task.
type TaskPayload struct {
	Force     bool `json:"force"`
	SendNotif bool `json:"send_notif"`
}

// parsePayload decodes raw, keeping notifications on when the field is absent.
func parsePayload(raw string) (TaskPayload, error) {
	p := TaskPayload{SendNotif: true}
	if strings.TrimSpace(raw) == "" {
		return p, nil
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return p, fmt.Errorf("failed to unmarshal task payload: %w", err)
	}
	return p, nil
}
