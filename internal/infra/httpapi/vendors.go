// internal/infra/httpapi/vendors.go
package httpapi

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"qr_order_system/internal/domain/vendor"
)

type addVendorRequest struct {
	VendorName  string          `json:"vendorName"`
	VendorEmail string          `json:"vendorEmail"`
	Cadence     json.RawMessage `json:"cadence,omitempty"`
}

type vendorResponse struct {
	ID                   int64           `json:"id"`
	VendorName           string          `json:"vendorName"`
	VendorEmail          string          `json:"vendorEmail"`
	Cadence              json.RawMessage `json:"cadence,omitempty"`
	LastEmailSentAt      *time.Time      `json:"lastEmailSentAt,omitempty"`
	LastEmailWindowStart *time.Time      `json:"lastEmailWindowStart,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}

func (h *Handler) handleAddVendor(w http.ResponseWriter, r *http.Request) {
	var req addVendorRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.VendorName == "" || req.VendorEmail == "" {
		writeError(w, http.StatusBadRequest, "missing vendorName or vendorEmail")
		return
	}

	v := &vendor.Vendor{
		Name:    req.VendorName,
		Email:   req.VendorEmail,
		Cadence: req.Cadence,
	}
	if err := h.vendors.Create(r.Context(), v); err != nil {
		h.logger.WithError(err).Error("Failed to save vendor.")
		writeError(w, http.StatusInternalServerError, "failed to save vendor")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Vendor added successfully", "id": v.ID})
}

func (h *Handler) handleListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.vendors.ListAll(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve vendors.")
		writeError(w, http.StatusInternalServerError, "failed to retrieve vendors")
		return
	}

	out := make([]vendorResponse, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, vendorResponse{
			ID:                   v.ID,
			VendorName:           v.Name,
			VendorEmail:          v.Email,
			Cadence:              v.Cadence,
			LastEmailSentAt:      nullTimePtr(v.LastEmailSentAt),
			LastEmailWindowStart: nullTimePtr(v.LastEmailWindowStart),
			CreatedAt:            v.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type deleteVendorsRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *Handler) handleDeleteVendors(w http.ResponseWriter, r *http.Request) {
	var req deleteVendorsRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.IDs == nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	deleted, err := h.vendors.DeleteByIDs(r.Context(), req.IDs)
	if err != nil {
		h.logger.WithError(err).Error("Failed to delete vendors.")
		writeError(w, http.StatusInternalServerError, "failed to delete vendors")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deletedCount": deleted})
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
