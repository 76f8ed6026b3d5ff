package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/crucial707/highlow/internal/service"
	"github.com/go-playground/validator/v10"
)

const msgInvalidJSON = "Invalid JSON"

var validate = newValidator()

// newValidator reports fields by their JSON names so messages match the wire contract.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads the request body into dst. On failure it writes the error
// response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			JSONError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		JSONError(w, msgInvalidJSON, http.StatusBadRequest)
		return false
	}
	return true
}

// requireFields runs struct validation and answers the first missing field
// with "Missing '<field>' in request body".
func requireFields(w http.ResponseWriter, v interface{}) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		JSONError(w, service.MissingFieldMessage(verrs[0].Field()), http.StatusBadRequest)
		return false
	}
	JSONError(w, msgInvalidJSON, http.StatusBadRequest)
	return false
}

// credentials is the body of POST /login and POST /users.
type credentials struct {
	UserName string `json:"user_name" validate:"required"`
	Password string `json:"password" validate:"required"`
}
