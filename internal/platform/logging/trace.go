package logging

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"
)

const traceContextHeader = "X-Cloud-Trace-Context"

// Cloud Trace header format: TRACE_ID/SPAN_ID;o=TRACE_TRUE
// Example: 105445aa7843bc8bf206b12000100000/1;o=1
var traceHeaderRe = regexp.MustCompile(`^([0-9a-fA-F]{32})/(\d{1,20})(?:;o=([01]))?$`)

// parseTraceHeader splits an X-Cloud-Trace-Context value into its parts.
// Returns ok=false when the header is absent or malformed.
func parseTraceHeader(header string) (traceID, spanID string, sampled, ok bool) {
	matches := traceHeaderRe.FindStringSubmatch(header)
	if len(matches) != 4 {
		return "", "", false, false
	}
	return matches[1], matches[2], matches[3] == "1", true
}

// loggerWithTrace derives a request logger carrying Cloud Trace fields and
// the request ID, so every line emitted during the request correlates with
// the platform's tracing system.
func loggerWithTrace(base *zap.Logger, header, projectID, requestID string) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	fields := traceFields(header, projectID)
	if requestID != "" {
		fields = append(fields, zap.String("requestId", requestID))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

func traceFields(header, projectID string) []zap.Field {
	if projectID == "" {
		return nil
	}
	traceID, spanID, sampled, ok := parseTraceHeader(header)
	if !ok {
		return nil
	}
	resource := fmt.Sprintf("projects/%s/traces/%s", projectID, traceID)
	return []zap.Field{
		zap.String("logging.googleapis.com/trace", resource),
		zap.String("logging.googleapis.com/spanId", spanID),
		zap.Bool("logging.googleapis.com/trace_sampled", sampled),
	}
}

// traceResource returns the fully qualified trace resource name, or "" when
// the header or project ID is unusable.
func traceResource(header, projectID string) string {
	if projectID == "" {
		return ""
	}
	traceID, _, _, ok := parseTraceHeader(header)
	if !ok {
		return ""
	}
	return fmt.Sprintf("projects/%s/traces/%s", projectID, traceID)
}
