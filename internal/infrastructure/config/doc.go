// Package config handles loading, validating and saving application settings.
//
// This package manages:
//   - Loading caller-defined settings from JSON or HJSON files
//   - Overriding outbound target credentials with environment variables
//   - Optional .env file loading before overrides are applied
//   - Validation of required fields
//   - Saving settings back to the file they were loaded from
//
// Settings types are plain structs owned by the application. Embedding
// Targets gives a settings type the optional outbound target blocks:
//
//	type Settings struct {
//	    config.Targets
//	    IntervalInSeconds int `validate:"required"`
//	}
//
// Security Considerations:
//   - Passwords and tokens should be supplied via HOMENET_* environment
//     variables or a .env file rather than committed settings files
//   - Saved settings files are written with 0600 permissions
//
// Usage:
//
//	m := config.NewManager[Settings]("appsettings.hjson")
//	cfg, err := m.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := m.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
