// internal/infra/httpapi/jobs.go
package httpapi

import (
	"net/http"
	"time"
)

type runSummaryResponse struct {
	OK           bool      `json:"ok"`
	SentCount    int       `json:"sentCount"`
	SkippedCount int       `json:"skippedCount"`
	FailedCount  int       `json:"failedCount"`
	Timestamp    time.Time `json:"timestamp"`
}

// handleRunVendorDigest is the external trigger for the vendor digest job.
// Overlapping triggers are safe: the second run yields on the job lock and
// reports zero counts.
func (h *Handler) handleRunVendorDigest(w http.ResponseWriter, r *http.Request) {
	summary, err := h.notifSvc.RunOnce(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Vendor digest run failed.")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"ok":        false,
			"error":     err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	writeJSON(w, http.StatusOK, runSummaryResponse{
		OK:           true,
		SentCount:    summary.SentCount,
		SkippedCount: summary.SkippedCount,
		FailedCount:  summary.FailedCount,
		Timestamp:    time.Now().UTC(),
	})
}
