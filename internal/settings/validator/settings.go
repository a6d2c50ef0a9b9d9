package validator

import (
	"errors"
	"fmt"
	"parking/pkg/model"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type SettingsValidator struct {
	validate *validator.Validate
}

func NewSettingsValidator() *SettingsValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return &SettingsValidator{validate: v}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// Validate only checks that both values are present. Negative defaults are
// stored as given.
func (v *SettingsValidator) Validate(u *model.SettingsUpdate) error {
	if err := v.validate.Struct(u); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			var out ValidationErrors
			for _, fe := range validationErrs {
				out = append(out, ValidationError{
					Field:   fe.Field(),
					Message: fmt.Sprintf("%s is required", fe.Field()),
				})
			}
			return out
		}
		return err
	}
	return nil
}
