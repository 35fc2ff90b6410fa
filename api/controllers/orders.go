package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bouquet-backend/api/responses"
	"github.com/angelmondragon/bouquet-backend/api/validators"
	"github.com/angelmondragon/bouquet-backend/internal/composer"
	"github.com/angelmondragon/bouquet-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/bouquet-backend/pkg/errors"
	"github.com/angelmondragon/bouquet-backend/pkg/logger"
	"github.com/angelmondragon/bouquet-backend/pkg/types"
)

type orderComposer interface {
	Compose(ctx context.Context, cart composer.Cart) (*composer.Receipt, error)
}

// PlaceOrder serves POST /api/orders. orderId on the wire is the human order number.
func PlaceOrder(svc orderComposer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order composer unavailable"))
			return
		}

		var payload cartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Compose(r.Context(), payload.toCart())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, types.OrderPlaced{
			OrderID: receipt.OrderNumber,
			Message: receipt.Message,
		})
	}
}

// OrderHistory serves GET /api/orders, newest first.
func OrderHistory(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		items, err := svc.History(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if items == nil {
			items = []orders.HistoryItem{}
		}

		responses.WriteJSON(w, http.StatusOK, items)
	}
}

// OrderDetail serves GET /api/orders/{orderNumber}.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderNumber := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
		if orderNumber == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number is required"))
			return
		}

		item, err := svc.Get(r.Context(), orderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, item)
	}
}
