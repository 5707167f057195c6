package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// severity - Low/Medium/High без учёта регистра
	_ = validate.RegisterValidation("severity", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseSeverity(fl.Field().String())
		return ok
	})
}

// ValidateRequest - валидация DTO; ошибки приводятся к errors.ErrInvalidRequest
func ValidateRequest(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.ErrInvalidRequest.WithMessage(err.Error())
	}

	fields := make([]string, 0, len(fieldErrs))
	details := make(map[string]interface{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
		details[fe.Field()] = fe.Tag()
	}

	return errors.ErrInvalidRequest.
		WithMessage("Invalid fields: " + strings.Join(fields, ", ")).
		WithDetails(details)
}
