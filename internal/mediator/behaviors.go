package mediator

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "dentalclinic/internal/errors"
	"dentalclinic/internal/messages"
	"dentalclinic/pkg/logger"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Logging log mỗi lần dispatch ở mức debug, lỗi ở mức warn
func Logging(log *zap.Logger) Behavior {
	return func(ctx context.Context, req any, next Next) (any, error) {
		start := time.Now()
		resp, err := next(ctx)

		fields := append(logger.ContextFields(ctx),
			zap.String("request", fmt.Sprintf("%T", req)),
			zap.Duration("latency", time.Since(start)),
		)
		if err != nil {
			log.Warn("request failed", append(fields, zap.Error(err))...)
			return resp, err
		}
		log.Debug("request handled", fields...)
		return resp, nil
	}
}

// Validatable request tự kiểm tra các ràng buộc không biểu diễn được bằng tag
type Validatable interface {
	Validate() error
}

// Validation chạy struct tag `validate` rồi tới Validate() nếu request có
// Lỗi tag "required" trả RequiredFields, các lỗi tag khác trả InvalidInput
func Validation(v *validator.Validate) Behavior {
	if v == nil {
		v = validator.New(validator.WithRequiredStructEnabled())
	}
	return func(ctx context.Context, req any, next Next) (any, error) {
		if err := validateStruct(v, req); err != nil {
			return nil, err
		}
		if vr, ok := req.(Validatable); ok {
			if err := vr.Validate(); err != nil {
				if _, isApp := apperrors.As(err); isApp {
					return nil, err
				}
				return nil, apperrors.New(apperrors.ErrInvalidInput, err.Error())
			}
		}
		return next(ctx)
	}
}

func validateStruct(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		// request không phải struct, không có gì để validate
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Tag() == "required" {
				return apperrors.Invalid(messages.RequiredFields)
			}
		}
	}
	return apperrors.Invalid(messages.InvalidInput)
}
