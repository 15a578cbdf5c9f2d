package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// collect runs the struct tags of v and records each failure on verr
// under the field's json name.
func collect(verr *ValidationError, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		verr.add(fieldName(fe), tagMessage(fe))
	}
	return nil
}

func fieldName(fe validator.FieldError) string {
	if name, ok := jsonNames[fe.StructField()]; ok {
		return name
	}
	return fe.Field()
}

var jsonNames = map[string]string{
	"Name":            "name",
	"Mail":            "mail",
	"Password":        "password",
	"PasswordConfirm": "password_confirm",
	"Kind":            "kind",
	"Extension":       "extension",
	"Description":     "description",
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid mail address"
	case "eqfield":
		return "must match " + jsonNames[fe.Param()]
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on '%s'", fe.Tag())
	}
}
