package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/rift/internal/domain/types"
)

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// unset list numbers validate as absent so omitempty skips them
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		n, ok := f.Interface().(types.ListNumber)
		if !ok || !n.Set {
			return nil
		}
		return n.Value
	}, types.ListNumber{})
	return v
}()

// checkParameters validates p and returns an error wrapping
// types.ErrInvalidParameters that reads as a sentence fragment.
func checkParameters(p any) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", types.ErrInvalidParameters, err)
	}
	reasons := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			reasons = append(reasons, fmt.Sprintf("the %s parameter is missing", fe.Field()))
		default:
			reasons = append(reasons, fmt.Sprintf("the %s parameter is out of range", fe.Field()))
		}
	}
	return fmt.Errorf("%w: %s", types.ErrInvalidParameters, strings.Join(reasons, " and "))
}
