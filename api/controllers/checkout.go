package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kardzapp/kardz-backend/api/middleware"
	"github.com/kardzapp/kardz-backend/api/responses"
	"github.com/kardzapp/kardz-backend/api/validators"
	checkoutsvc "github.com/kardzapp/kardz-backend/internal/checkout"
	"github.com/kardzapp/kardz-backend/pkg/enums"
	pkgerrors "github.com/kardzapp/kardz-backend/pkg/errors"
	"github.com/kardzapp/kardz-backend/pkg/logger"
)

type checkoutItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Qty       int    `json:"qty" validate:"required,min=1"`
}

type checkoutRequest struct {
	Items []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Checkout creates a card order; payment settles immediately.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return executeCheckout(svc, logg, enums.PaymentMethodCard)
}

// BitCheckout creates a bit order; it stays pending until the settlement
// worker confirms the transfer.
func BitCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return executeCheckout(svc, logg, enums.PaymentMethodBit)
}

func executeCheckout(svc checkoutsvc.Service, logg *logger.Logger, method enums.PaymentMethod) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]checkoutsvc.Line, 0, len(payload.Items))
		for _, item := range payload.Items {
			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			lines = append(lines, checkoutsvc.Line{ProductID: productID, Qty: item.Qty})
		}

		order, err := svc.Execute(r.Context(), actor, checkoutsvc.Input{
			Lines:         lines,
			PaymentMethod: method,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
