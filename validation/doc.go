// Package validation validates configuration and inputs and reports
// failures as AppErrors.
//
// Struct validation uses go-playground/validator tags and names fields by
// their mapstructure key so messages match the config file:
//
//	type Options struct {
//	    Resolution float64 `mapstructure:"resolution" validate:"gte=0"`
//	}
//	err := validation.ValidateConfig(opts)
//
// Values outside tagged structs, such as CLI flags, use the collecting
// Validator:
//
//	v := validation.New().OneOf("output", out, []string{"json", "yaml"})
//	if err := v.Validate(); err != nil { ... }
package validation
