package nginx

import "strings"

// Validate performs cheap structural sanity checks on rendered config text.
// It is not an nginx grammar check; errors accumulate instead of
// short-circuiting so the caller sees every problem at once.
func Validate(config string) ValidationResult {
	var errs []string

	if !strings.Contains(config, "server {") {
		errs = append(errs, "Configuration must contain at least one server block")
	}

	if !strings.Contains(config, "listen ") {
		errs = append(errs, "Server blocks must contain listen directive")
	}

	if strings.Count(config, "{") != strings.Count(config, "}") {
		errs = append(errs, "Unbalanced braces in configuration")
	}

	// Known limitation: any "ssl" substring triggers this check, including
	// occurrences inside additionalConfig free text or comments.
	if strings.Contains(config, "ssl") && !strings.Contains(config, "ssl_certificate") {
		errs = append(errs, "SSL enabled but no ssl_certificate directive found")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
