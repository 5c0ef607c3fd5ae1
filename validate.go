package tailstyle

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// ValidateConfig checks the configuration before any compile runs.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("invalid config: configuration is nil")
	}
	return convertValidationError(validatorInstance().Struct(config))
}

// convertValidationError reports the first failing field by its lowercased path.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return fmt.Errorf("invalid config: %s failed validation for tag '%s'", fieldName(fe), fe.Tag())
	}
	return fmt.Errorf("invalid config: %w", err)
}

func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.ToLower(strings.Join(parts, "."))
}
