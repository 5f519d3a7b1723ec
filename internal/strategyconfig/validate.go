package strategyconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fromFieldError(fieldErrs[0])
		}
		return err
	}

	// === Passes ===
	// momentum은 window 필수, 나머지는 window 금지
	for i, p := range cfg.Passes {
		field := fmt.Sprintf("passes[%d].window", i)
		if p.Strategy == "momentum" && p.Window == "" {
			return ValidationError{field, "required for momentum"}
		}
		if p.Strategy != "momentum" && p.Window != "" {
			return ValidationError{field, fmt.Sprintf("not allowed for %s", p.Strategy)}
		}
	}

	// === Universe ===
	seen := make(map[string]bool)
	for i, c := range cfg.Universe {
		if seen[c.Name] {
			return ValidationError{fmt.Sprintf("universe[%d].name", i), fmt.Sprintf("duplicate category %q", c.Name)}
		}
		seen[c.Name] = true
	}

	return nil
}

// fromFieldError renders a validator failure with the YAML-ish field path
func fromFieldError(fe validator.FieldError) ValidationError {
	// Config.Passes[0].MinScore -> Passes[0].MinScore
	field := strings.TrimPrefix(fe.Namespace(), "Config.")

	var msg string
	switch fe.Tag() {
	case "required":
		msg = "required"
	case "min":
		msg = fmt.Sprintf("must have at least %s entries", fe.Param())
	case "gte":
		msg = fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		msg = fmt.Sprintf("must be <= %s", fe.Param())
	case "oneof":
		msg = fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uppercase":
		msg = fmt.Sprintf("symbol %q must be uppercase", fe.Value())
	default:
		msg = fmt.Sprintf("failed validation: %s", fe.Tag())
	}

	return ValidationError{Field: field, Message: msg}
}
