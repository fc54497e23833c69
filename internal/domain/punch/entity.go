package punch

import "time"

// Raw is a biometric punch as pushed by a device or log-sync collaborator.
// PunchTime is organization-local wall time; no timezone conversion happens
// downstream.
type Raw struct {
	ID           string
	TenantID     string
	DeviceUserID string
	PunchTime    time.Time
	DeviceID     *string
	PunchType    *string
	IsProcessed  bool
	ProcessedAt  *time.Time
	CreatedAt    time.Time
}
