// internal/infra/httpapi/qrcodes.go
package httpapi

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"qr_order_system/internal/domain/qrcode"
	idb "qr_order_system/internal/infra/database"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	qrgen "github.com/skip2/go-qrcode"
)

type addQRCodeRequest struct {
	UID             string `json:"uid"`
	ProductName     string `json:"productName"`
	ProductURL      string `json:"productURL"`
	QRCodeDataURL   string `json:"qrCodeDataURL"`
	ProductQuantity string `json:"productQuantity"`
	VendorID        int64  `json:"vendorId"`
}

type qrCodeResponse struct {
	ID              int64     `json:"id"`
	UID             string    `json:"uid"`
	ProductName     string    `json:"productName"`
	ProductURL      string    `json:"productURL"`
	QRCodeDataURL   string    `json:"qrCodeDataURL"`
	ProductQuantity string    `json:"productQuantity,omitempty"`
	VendorName      string    `json:"vendorName"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (h *Handler) handleAddQRCode(w http.ResponseWriter, r *http.Request) {
	var req addQRCodeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.ProductName == "" || req.ProductURL == "" || req.QRCodeDataURL == "" {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}
	if req.UID == "" {
		req.UID = uuid.NewString()
	}

	c := &qrcode.Code{
		UID:             req.UID,
		ProductName:     req.ProductName,
		ProductURL:      req.ProductURL,
		QRDataURL:       req.QRCodeDataURL,
		ProductQuantity: nullString(req.ProductQuantity),
	}
	if req.VendorID != 0 {
		c.VendorID = sql.NullInt64{Int64: req.VendorID, Valid: true}
	}
	if err := h.qrcodes.Create(r.Context(), c); err != nil {
		h.logger.WithError(err).Error("Failed to save QR code.")
		writeError(w, http.StatusInternalServerError, "failed to save qr code")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "QR code saved successfully", "id": c.ID, "uid": c.UID})
}

func (h *Handler) handleListQRCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.qrcodes.ListAll(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve QR codes.")
		writeError(w, http.StatusInternalServerError, "failed to retrieve qr codes")
		return
	}
	writeJSON(w, http.StatusOK, qrCodeResponses(codes))
}

func (h *Handler) handleGetQRCodeByUID(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	c, err := h.qrcodes.GetByUID(r.Context(), uid)
	if err != nil {
		if errors.Is(err, idb.ErrQRCodeNotFound) {
			writeError(w, http.StatusNotFound, "qr code not found")
			return
		}
		h.logger.WithError(err).Error("Failed to retrieve QR code.")
		writeError(w, http.StatusInternalServerError, "failed to retrieve qr code")
		return
	}
	writeJSON(w, http.StatusOK, qrCodeResponses([]*qrcode.Code{c})[0])
}

type generateQRCodeRequest struct {
	ProductName string `json:"productName"`
	ProductURL  string `json:"productUrl"`
}

// handleGenerateQRCodeImage renders a PNG for a product label. The payload
// format ("URL: <url>") predates this service and is what the scanning flow
// expects.
func (h *Handler) handleGenerateQRCodeImage(w http.ResponseWriter, r *http.Request) {
	var req generateQRCodeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.ProductName == "" || req.ProductURL == "" {
		writeError(w, http.StatusBadRequest, "missing product name or URL")
		return
	}

	png, err := qrgen.Encode(fmt.Sprintf("URL: %s", req.ProductURL), qrgen.Medium, 256)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate QR code image.")
		writeError(w, http.StatusInternalServerError, "failed to generate qr code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="product_qr_code.png"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func qrCodeResponses(codes []*qrcode.Code) []qrCodeResponse {
	out := make([]qrCodeResponse, 0, len(codes))
	for _, c := range codes {
		out = append(out, qrCodeResponse{
			ID:              c.ID,
			UID:             c.UID,
			ProductName:     c.ProductName,
			ProductURL:      c.ProductURL,
			QRCodeDataURL:   c.QRDataURL,
			ProductQuantity: c.ProductQuantity.String,
			VendorName:      c.VendorName,
			CreatedAt:       c.CreatedAt,
		})
	}
	return out
}
