package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"my-notes-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks a dto against its validate tags and reports all
// failing fields in one BadRequest.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperror.BadRequest(err.Error())
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s failed on %q", fieldErr.Field(), fieldErr.Tag()))
	}
	return apperror.BadRequest("invalid request: " + strings.Join(fields, ", "))
}
