// Package config provides configuration management for the Steady Better application.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/steady-better/internal/strategy"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("selectionpolicy", validateSelectionPolicy)
	_ = v.RegisterValidation("filterpolicy", validateFilterPolicy)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateSelectionPolicy validates the bet selection policy field
func validateSelectionPolicy(fl validator.FieldLevel) bool {
	_, err := strategy.ParseSelectionPolicy(fl.Field().String())
	return err == nil
}

// validateFilterPolicy validates the row filter policy field
func validateFilterPolicy(fl validator.FieldLevel) bool {
	_, err := strategy.ParseFilterPolicy(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	// Validate the filter band
	if cfg.Strategy.Filter.Policy == string(strategy.FilterRangeCoef) {
		if cfg.Strategy.Filter.High == nil {
			return fmt.Errorf("filter policy range_coef requires a high bound")
		}
		if *cfg.Strategy.Filter.High < cfg.Strategy.Filter.Low {
			return fmt.Errorf("filter high bound %.2f must not be below low bound %.2f",
				*cfg.Strategy.Filter.High, cfg.Strategy.Filter.Low)
		}
	}

	// Validate connection pool settings
	if cfg.Database.Enabled && cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	// Validate production environment requirements
	if cfg.IsProduction() && cfg.Database.Enabled && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "required_if":
			errMsg += fmt.Sprintf("- Field '%s' is required when the section is enabled\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "selectionpolicy":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: %v\n", field, strategy.SelectionPolicies())
		case "filterpolicy":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: %v\n", field, strategy.FilterPolicies())
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
