package auth

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/amirx1991/crm-sub001/internal/apperrors"
)

var validate = validator.New()

func init() {
	// Report on json tag names instead of struct field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// checkInput validates an outbound request DTO before dispatch. Invalid
// input never reaches the network layer.
func checkInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	fields := make([]string, 0, len(errs))
	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "is required"
		case "e164":
			message = "must be an international phone number, e.g. +15550100"
		case "number":
			message = "must contain digits only"
		default:
			message = "is invalid"
		}
		fields = append(fields, fieldError.Field()+" "+message)
	}

	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(fields, "; "))
}
