package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pratik-mahalle/nutriscan/internal/api/middleware"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/utils"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/validator"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// decodeAndValidate reads a JSON body into dst and validates it. It writes
// the error response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, val *validator.Validator, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return false
	}
	if validationErrs := val.Validate(dst); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return false
	}
	return true
}

// requireUserID returns the signed-in user's id or writes a 401
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication required"))
		return "", false
	}
	return userID, true
}
