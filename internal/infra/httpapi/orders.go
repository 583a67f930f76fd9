// internal/infra/httpapi/orders.go
package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"qr_order_system/internal/domain/order"
	idb "qr_order_system/internal/infra/database"

	"github.com/go-chi/chi/v5"
)

type addOrderRequest struct {
	ProductName     string `json:"productName"`
	ProductURL      string `json:"productUrl"`
	ProductQuantity string `json:"productQuantity"`
	OrderQuantity   int    `json:"productOrderQuantity"`
	VendorName      string `json:"vendorName"`
}

type orderResponse struct {
	ID              int64     `json:"id"`
	ProductName     string    `json:"productName"`
	ProductURL      string    `json:"productUrl,omitempty"`
	ProductQuantity string    `json:"productQuantity,omitempty"`
	OrderQuantity   int       `json:"productOrderQuantity"`
	VendorName      string    `json:"vendorName,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (h *Handler) handleAddOrder(w http.ResponseWriter, r *http.Request) {
	var req addOrderRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.ProductName == "" || req.OrderQuantity <= 0 {
		writeError(w, http.StatusBadRequest, "missing productName or productOrderQuantity")
		return
	}

	o := &order.Order{
		ProductName:     req.ProductName,
		ProductURL:      nullString(req.ProductURL),
		ProductQuantity: nullString(req.ProductQuantity),
		OrderQuantity:   req.OrderQuantity,
		VendorName:      nullString(req.VendorName),
	}
	if err := h.orders.Create(r.Context(), o); err != nil {
		h.logger.WithError(err).Error("Failed to save order.")
		writeError(w, http.StatusInternalServerError, "failed to save order")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Order saved successfully", "id": o.ID})
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	filter := order.Filter{
		ActiveOnly:  r.URL.Query().Get("active") == "true",
		ProductName: r.URL.Query().Get("productName"),
	}

	orders, err := h.orders.List(r.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve orders.")
		writeError(w, http.StatusInternalServerError, "failed to retrieve orders")
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderResponse{
			ID:              o.ID,
			ProductName:     o.ProductName,
			ProductURL:      o.ProductURL.String,
			ProductQuantity: o.ProductQuantity.String,
			OrderQuantity:   o.OrderQuantity,
			VendorName:      o.VendorName.String,
			IsActive:        o.IsActive,
			CreatedAt:       o.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCompleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDFromURL(w, r)
	if !ok {
		return
	}
	if err := h.orders.MarkInactive(r.Context(), []int64{id}); err != nil {
		h.logger.WithError(err).Error("Failed to complete order.")
		writeError(w, http.StatusInternalServerError, "failed to update order")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Order marked as inactive"})
}

func (h *Handler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDFromURL(w, r)
	if !ok {
		return
	}
	if err := h.orders.Delete(r.Context(), id); err != nil {
		if errors.Is(err, idb.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.WithError(err).Error("Failed to delete order.")
		writeError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Order deleted successfully"})
}

func orderIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
