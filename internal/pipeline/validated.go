package pipeline

import (
	"context"
	stderrors "errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmgilman/go/errors"
)

// Validated checks struct tags on the request before calling next
func Validated[Req, Resp any](validate *validator.Validate, next Handler[Req, Resp]) Handler[Req, Resp] {
	return HandlerFunc[Req, Resp](func(ctx context.Context, req Req) (Resp, error) {
		if err := validate.StructCtx(ctx, req); err != nil {
			var invalid *validator.InvalidValidationError
			if !stderrors.As(err, &invalid) {
				var zero Resp
				return zero, validationError(err)
			}
			// Not a struct, nothing to validate
		}
		return next.Handle(ctx, req)
	})
}

func validationError(err error) error {
	fields := map[string]interface{}{}

	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return errors.WrapWithContext(err, errors.CodeInvalidInput, "request validation failed", fields)
}
