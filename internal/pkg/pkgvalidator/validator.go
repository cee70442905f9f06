package pkgvalidator

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgerror"
)

// Struct validates the fields of structPtr with the given rules.
//
// Rule violations become an invalid-input error whose message lists every
// failing field by its json name; a misconfigured rule becomes a server error.
func Struct(structPtr any, fields ...*validation.FieldRules) error {
	return translate(validation.ValidateStruct(structPtr, fields...))
}

// Value validates a single value, using name as the field label in the message.
func Value(name string, value any, rules ...validation.Rule) error {
	if err := validation.Validate(value, rules...); err != nil {
		return translate(validation.Errors{name: err})
	}
	return nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return pkgerror.NewServer(internal.InternalError())
	}

	return pkgerror.NewInvalidInput(err)
}
