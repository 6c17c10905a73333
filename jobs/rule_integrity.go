package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/gatewarden/gatewarden/internal/authz"
	jobmetrics "github.com/gatewarden/gatewarden/internal/jobs"
)

// RuleSource is the slice of the authz repository the integrity scan needs.
type RuleSource interface {
	ListDanglingRules(ctx context.Context) ([]authz.EndpointRule, error)
}

// RuleIntegrityScanJob reports endpoint rules whose role row has vanished.
// The schema's foreign key makes this impossible under normal operation; a
// hit means someone bypassed the application when touching the tables.
type RuleIntegrityScanJob struct {
	Rules   RuleSource
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewRuleIntegrityScanJob initialises the integrity scan handler.
func NewRuleIntegrityScanJob(rules RuleSource, logger *slog.Logger, metrics *jobmetrics.Metrics) *RuleIntegrityScanJob {
	return &RuleIntegrityScanJob{Rules: rules, Logger: logger, Metrics: metrics}
}

// Handle executes the integrity scan.
func (j *RuleIntegrityScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Rules == nil {
		return errors.New("rule integrity scan: handler not configured")
	}
	var payload RuleIntegrityScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskRuleIntegrityScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	dangling, err := j.Rules.ListDanglingRules(ctx)
	if err != nil {
		resultErr = err
		j.logger().Error("scan failed", slog.Any("error", err))
		return resultErr
	}

	for _, rule := range dangling {
		j.logger().Warn("endpoint rule references missing role",
			slog.Int64("rule_id", rule.ID),
			slog.String("pattern", rule.URLPattern),
			slog.String("method", rule.HTTPMethod),
		)
	}

	if len(dangling) > 0 && payload.FailOnDangling {
		resultErr = fmt.Errorf("rule integrity scan: %d dangling rules", len(dangling))
		return resultErr
	}

	j.logger().Info("rule integrity scan completed", slog.Int("dangling", len(dangling)))
	return resultErr
}

func (j *RuleIntegrityScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskRuleIntegrityScan))
	}
	return slog.Default().With(slog.String("job", TaskRuleIntegrityScan))
}

func (j *RuleIntegrityScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}
