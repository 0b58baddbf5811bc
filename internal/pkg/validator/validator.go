package validator

import (
	stderrors "errors"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/damage-assessment-api/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate - валидация структуры; ошибки валидации возвращаются как AppError INVALID_REQUEST
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return apperrors.ErrInvalidRequest.Wrap(err)
	}

	fields := make(map[string]interface{}, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
		msgs = append(msgs, fe.Field()+" failed "+fe.Tag())
	}
	return apperrors.ErrInvalidRequest.
		WithMessage("invalid request: %s", strings.Join(msgs, ", ")).
		WithDetails(fields)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}
