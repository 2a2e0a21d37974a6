package utils

import (
	"errors"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var periodPattern = regexp.MustCompile(`^[A-Za-z]+ \d{4}$`)

// RegisterCustomValidations registers custom validation rules
func RegisterCustomValidations(v *validator.Validate) {
	v.RegisterValidation("role", validateRole)
	v.RegisterValidation("period", validatePeriod)
}

func validateRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "customer", "technician", "admin":
		return true
	}
	return false
}

// validatePeriod accepts labels like "Mei 2025".
func validatePeriod(fl validator.FieldLevel) bool {
	return periodPattern.MatchString(fl.Field().String())
}

func TranslateValidationError(err error) string {
	lang := os.Getenv("APP_API_RETURN_LANG")
	if lang == "" {
		lang = "EN"
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		var messages []string
		for _, fe := range ve {
			field := fe.Field()
			switch lang {
			case "IDN":
				switch fe.Tag() {
				case "required":
					messages = append(messages, field+" wajib diisi")
				case "email":
					messages = append(messages, "format email tidak valid")
				case "min":
					messages = append(messages, field+" minimal "+fe.Param())
				case "max":
					messages = append(messages, field+" maksimal "+fe.Param())
				case "gt":
					messages = append(messages, field+" harus lebih dari "+fe.Param())
				case "role":
					messages = append(messages, field+" harus customer, technician, atau admin")
				case "period":
					messages = append(messages, field+" harus berformat 'Bulan Tahun' (contoh: Mei 2025)")
				case "oneof":
					messages = append(messages, field+" harus salah satu dari: "+fe.Param())
				default:
					messages = append(messages, field+" tidak valid")
				}

			default: // English
				switch fe.Tag() {
				case "required":
					messages = append(messages, field+" is required")
				case "email":
					messages = append(messages, "invalid email format")
				case "min":
					messages = append(messages, field+" must be at least "+fe.Param())
				case "max":
					messages = append(messages, field+" must be at most "+fe.Param())
				case "gt":
					messages = append(messages, field+" must be greater than "+fe.Param())
				case "role":
					messages = append(messages, field+" must be customer, technician or admin")
				case "period":
					messages = append(messages, field+" must look like 'Month Year' (e.g., Mei 2025)")
				case "oneof":
					messages = append(messages, field+" must be one of: "+fe.Param())
				default:
					messages = append(messages, field+" is invalid")
				}
			}
		}
		return strings.Join(messages, ", ")
	}
	return err.Error()
}
