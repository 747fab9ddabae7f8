package handlers

import (
	"net/http"

	appErrors "github.com/emojimart/storefront/internal/errors"
	"github.com/emojimart/storefront/internal/utils/response"
	"github.com/google/uuid"
)

// parseCartID pulls the {id} path value and rejects anything that is not a
// cart handle. Writes the error response itself so handlers can just return.
func parseCartID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.PathValue("id")

	if raw == "" {
		response.Error(w, appErrors.BadRequestError("Cart ID is required"))
		return uuid.Nil, false
	}

	cartID, err := uuid.Parse(raw)
	if err != nil {
		response.Error(w, appErrors.BadRequestError("Cart ID is not valid").WithError(err))
		return uuid.Nil, false
	}

	return cartID, true
}
