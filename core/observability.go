package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFatal    = "fatal"
)

type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

// Observer pairs the structured logger with the metrics recorder so every
// component reports operations the same way.
type Observer struct {
	logger  Logger
	metrics MetricsRecorder
}

func NewObserver(logger Logger, metrics MetricsRecorder) *Observer {
	if metrics == nil {
		metrics = NopMetricsRecorder{}
	}
	return &Observer{logger: logger, metrics: metrics}
}

// ObserveResponse records the outcome of an operation that produced resp or
// failed with err.
func (o *Observer) ObserveResponse(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	resp Response,
	err error,
	fields map[string]any,
) {
	if o == nil {
		return
	}
	operation = normalizeOperation(operation)
	if operation == "" {
		operation = "unknown"
	}

	outcome := OutcomeAccepted
	contextFields := cloneFields(fields)
	switch typed := resp.(type) {
	case *ErrorResponse:
		outcome = OutcomeRejected
		contextFields["rejection_reason"] = typed.Reason.String()
	case *BodyResponse:
		contextFields["media_type"] = typed.Payload.MediaType
	}
	if err != nil {
		outcome = OutcomeFatal
		contextFields["error"] = err.Error()
	}
	elapsed := time.Since(startedAt)
	contextFields["event_type"] = operation
	contextFields["outcome"] = outcome
	contextFields["duration_ms"] = elapsed.Milliseconds()

	tags := map[string]string{
		"operation": operation,
		"outcome":   outcome,
	}
	for _, key := range []string{"type_tag", "rejection_reason"} {
		if value := strings.TrimSpace(fmt.Sprint(contextFields[key])); value != "" && value != "<nil>" {
			tags[key] = value
		}
	}

	o.metrics.IncCounter(ctx, "connector."+operation+".total", 1, cloneTags(tags))
	o.metrics.ObserveHistogram(ctx, "connector."+operation+".duration_ms", float64(elapsed.Milliseconds()), cloneTags(tags))

	switch outcome {
	case OutcomeFatal:
		o.Log(ctx, "error", operation+" failed", contextFields)
	case OutcomeRejected:
		o.Log(ctx, "debug", operation+" rejected", contextFields)
	default:
		o.Log(ctx, "info", operation+" succeeded", contextFields)
	}
}

func (o *Observer) Log(ctx context.Context, level string, message string, fields map[string]any) {
	if o == nil || o.logger == nil {
		return
	}
	logger := o.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	case "debug":
		logger.Debug(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func cloneTags(tags map[string]string) map[string]string {
	if len(tags) == 0 {
		return map[string]string{}
	}
	copied := make(map[string]string, len(tags))
	for key, value := range tags {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeOperation(operation string) string {
	operation = strings.TrimSpace(strings.ToLower(operation))
	return strings.ReplaceAll(operation, " ", "_")
}

var _ MetricsRecorder = NopMetricsRecorder{}
