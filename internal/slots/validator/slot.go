package validator

import (
	"errors"
	"fmt"
	"parking/pkg/logger"
	"parking/pkg/model"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var slotNumberRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 \-]*$`)

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

type SlotValidator struct {
	validate *validator.Validate
}

func NewSlotValidator(log *logger.Logger) *SlotValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("slot_number", validateSlotNumber); err != nil {
		log.Fatal("Failed to register 'slot_number' validator", "error", err)
	}

	return &SlotValidator{validate: v}
}

// validateSlotNumber expects a value already passed through
// sanitizer.NormalizeSlotNumber.
func validateSlotNumber(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || slotNumberRegex.MatchString(s)
}

func (v *SlotValidator) ValidateCreate(c *model.SlotCreate) error {
	return v.validateStruct(c)
}

func (v *SlotValidator) ValidateUpdate(u *model.SlotUpdate) error {
	return v.validateStruct(u)
}

func (v *SlotValidator) ValidateRate(u *model.SlotRateUpdate) error {
	return v.validateStruct(u)
}

func (v *SlotValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *SlotValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
		case "slot_number":
			message = "slot_number may contain only letters, digits, spaces and hyphens"
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
