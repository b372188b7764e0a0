package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeProjectCreated  ActivityType = "project_created"
	TypeProjectUpdated  ActivityType = "project_updated"
	TypeStageChanged    ActivityType = "stage_changed"
	TypeProjectDeleted  ActivityType = "project_deleted"
	TypeProjectImported ActivityType = "project_imported"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	TenantID     string       `json:"tenant_id"`
	ProjectID    string       `json:"project_id"`
	Actor        string       `json:"actor,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
