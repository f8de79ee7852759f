package probe

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"

	"github.com/apiprobe-dev/apiprobe/internal/report"
)

// unsupportedMarkers are message fragments providers use when rejecting a
// feature rather than failing outright.
var unsupportedMarkers = []string{
	"does not support",
	"not supported",
	"unsupported",
	"invalid parameter",
	"unknown parameter",
	"unrecognized request argument",
	"400",
	"invalid request",
	"no endpoints found",
	"not found for this model",
}

// classifyProbeError decides whether a probe failure means the feature is
// unsupported or the probe itself hit an unrelated error. Auth, rate-limit,
// and transport failures are never treated as capability answers.
func classifyProbeError(err error) report.Outcome {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
			return report.OutcomeUnsupported
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
			return report.OutcomeError
		}
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range unsupportedMarkers {
		if strings.Contains(msg, marker) {
			return report.OutcomeUnsupported
		}
	}
	return report.OutcomeError
}

// failureStatus builds the FeatureStatus for a failed probe, preserving the
// provider's message in the detail.
func failureStatus(prefix string, err error, latencyMs int64) report.FeatureStatus {
	detail := fmt.Sprintf("%s: %v", prefix, err)
	if classifyProbeError(err) == report.OutcomeUnsupported {
		return report.Unsupported(detail, latencyMs)
	}
	return report.Errored(detail, latencyMs)
}
