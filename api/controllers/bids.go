package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/kardzapp/kardz-backend/api/middleware"
	"github.com/kardzapp/kardz-backend/api/responses"
	"github.com/kardzapp/kardz-backend/api/validators"
	auctionsvc "github.com/kardzapp/kardz-backend/internal/auction"
	pkgerrors "github.com/kardzapp/kardz-backend/pkg/errors"
	"github.com/kardzapp/kardz-backend/pkg/logger"
	"github.com/kardzapp/kardz-backend/pkg/money"
)

type placeBidRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// PlaceBid records a bid on an auction listing and returns the refreshed
// product with its bid history.
func PlaceBid(svc auctionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload placeBidRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.PlaceBid(r.Context(), productID, actor, money.ToCents(payload.Amount))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}
