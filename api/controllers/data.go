package controllers

import (
	"net/http"

	"github.com/kardzapp/kardz-backend/api/responses"
	categorysvc "github.com/kardzapp/kardz-backend/internal/categories"
	eventsvc "github.com/kardzapp/kardz-backend/internal/events"
	productsvc "github.com/kardzapp/kardz-backend/internal/products"
	"github.com/kardzapp/kardz-backend/pkg/logger"
)

// InitialData bundles everything the storefront needs on first load.
func InitialData(products productsvc.Service, categories categorysvc.Service, events eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalog, err := products.Catalog(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		taxonomy, err := categories.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		upcoming, err := events.ListUpcoming(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"products":   catalog,
			"categories": taxonomy,
			"events":     upcoming,
		})
	}
}
