package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/bouquet-backend/api/responses"
	"github.com/angelmondragon/bouquet-backend/api/validators"
	"github.com/angelmondragon/bouquet-backend/internal/composer"
	"github.com/angelmondragon/bouquet-backend/internal/prompt"
	"github.com/angelmondragon/bouquet-backend/internal/visualization"
	pkgerrors "github.com/angelmondragon/bouquet-backend/pkg/errors"
	"github.com/angelmondragon/bouquet-backend/pkg/logger"
)

type cartResolver interface {
	Resolve(ctx context.Context, cart composer.Cart) (*composer.Resolution, error)
}

// Renderer turns a prompt into a preview artifact; it never fails.
type Renderer interface {
	Render(ctx context.Context, prompt string) visualization.Artifact
}

type visualizationResponse struct {
	ImageURL string `json:"imageUrl"`
}

// Visualize validates the cart exactly like an order would be validated, then
// renders a preview. Rendering problems degrade to the placeholder URL;
// validation problems are returned as 4xx.
func Visualize(resolver cartResolver, gateway Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil || gateway == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "visualization unavailable"))
			return
		}

		var payload cartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res, err := resolver.Resolve(r.Context(), payload.toCart())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		artifact := gateway.Render(r.Context(), prompt.Build(res.PromptDetail()))
		responses.WriteJSON(w, http.StatusOK, visualizationResponse{ImageURL: artifact.URL})
	}
}
