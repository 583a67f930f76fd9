// internal/infra/httpapi/handler.go
package httpapi

import (
	"encoding/json"
	"net/http"

	"qr_order_system/internal/app"
	"qr_order_system/internal/domain/order"
	"qr_order_system/internal/domain/qrcode"
	"qr_order_system/internal/domain/vendor"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	vendors  vendor.Repository
	orders   order.Repository
	qrcodes  qrcode.Repository
	notifSvc app.NotificationService
	logger   logrus.FieldLogger
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHandler(
	vendors vendor.Repository,
	orders order.Repository,
	qrcodes qrcode.Repository,
	notifSvc app.NotificationService,
	logger logrus.FieldLogger,
) *Handler {
	return &Handler{
		vendors:  vendors,
		orders:   orders,
		qrcodes:  qrcodes,
		notifSvc: notifSvc,
		logger:   logger,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/vendors", func(r chi.Router) {
			r.Post("/", h.handleAddVendor)
			r.Get("/", h.handleListVendors)
			r.Delete("/", h.handleDeleteVendors)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.handleAddOrder)
			r.Get("/", h.handleListOrders)
			r.Patch("/{id}/complete", h.handleCompleteOrder)
			r.Delete("/{id}", h.handleDeleteOrder)
		})
		r.Route("/qrcodes", func(r chi.Router) {
			r.Post("/", h.handleAddQRCode)
			r.Get("/", h.handleListQRCodes)
			r.Get("/{uid}", h.handleGetQRCodeByUID)
			r.Post("/image", h.handleGenerateQRCodeImage)
		})
		r.Post("/jobs/vendor-digest", h.handleRunVendorDigest)
	})
	return r
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": ww.Status(),
		}).Debug("HTTP request handled.")
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeRequest reads a JSON body into dst, replying 400 on malformed input.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
