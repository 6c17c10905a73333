package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionCleanup purges expired session bookkeeping rows.
	TaskSessionCleanup = "sessions:cleanup"
	// TaskRuleIntegrityScan looks for endpoint rules bound to missing roles.
	TaskRuleIntegrityScan = "rules:integrity_scan"
)

// SessionCleanupPayload bounds the cleanup to sessions expired longer than
// GraceHours ago.
type SessionCleanupPayload struct {
	GraceHours int `json:"grace_hours"`
}

// NewSessionCleanupTask constructs the session cleanup task.
func NewSessionCleanupTask(graceHours int) (*asynq.Task, error) {
	data, err := json.Marshal(SessionCleanupPayload{GraceHours: graceHours})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionCleanup, data), nil
}

// RuleIntegrityScanPayload configures the integrity scan run.
type RuleIntegrityScanPayload struct {
	// FailOnDangling makes the job return an error when dangling rules are
	// found, so the failure shows up in job metrics.
	FailOnDangling bool `json:"fail_on_dangling"`
}

// NewRuleIntegrityScanTask constructs the rule integrity scan task.
func NewRuleIntegrityScanTask(failOnDangling bool) (*asynq.Task, error) {
	data, err := json.Marshal(RuleIntegrityScanPayload{FailOnDangling: failOnDangling})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRuleIntegrityScan, data), nil
}
