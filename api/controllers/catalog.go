package controllers

import (
	"net/http"

	"github.com/angelmondragon/bouquet-backend/api/responses"
	"github.com/angelmondragon/bouquet-backend/internal/catalog"
	"github.com/angelmondragon/bouquet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bouquet-backend/pkg/errors"
	"github.com/angelmondragon/bouquet-backend/pkg/logger"
)

// CatalogList serves GET /api/{flowers,foliage,papers,ribbons}.
func CatalogList(svc catalog.Service, category enums.ProductCategory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.ListByCategory(r.Context(), category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, catalog.ToDTOs(products))
	}
}
