package cmd

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	errors "github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"

	"github.com/Laisky/searchhub/internal/global"
)

// configGetter retrieves raw configuration values by dotted key path.
type configGetter func(key string) any

// validateStartupConfig validates startup configuration from the shared config source.
// It returns an error when any configured value is malformed or violates constraints.
func validateStartupConfig() error {
	return validateStartupConfigWithGetter(func(key string) any {
		return gconfig.S.Get(key)
	})
}

// validateStartupConfigWithGetter validates startup configuration via a key-value getter.
// It accepts a value getter and returns nil when all configured values are valid.
func validateStartupConfigWithGetter(get configGetter) error {
	if get == nil {
		return errors.New("config getter is nil")
	}

	validationErrs := make([]string, 0)

	validateSearchConfig(get, &validationErrs)
	validateSessionConfig(get, &validationErrs)
	validateRedisConfig(get, &validationErrs)
	validateThrottleConfig(get, &validationErrs)
	validateWebConfig(get, &validationErrs)
	validateOptionalBool(get, "settings.mcp.enabled", &validationErrs)

	if len(validationErrs) == 0 {
		return nil
	}

	return errors.Errorf("invalid configuration:\n - %s", strings.Join(validationErrs, "\n - "))
}

// validateSearchConfig validates the search page adapter settings.
func validateSearchConfig(get configGetter, errs *[]string) {
	validateOptionalURL(get, "settings.search.endpoint", errs)
	validateOptionalIntMin(get, "settings.search.timeout_seconds", 1, errs)
	validateOptionalStringNonEmpty(get, "settings.search.user_agent", errs)
	validateOptionalStringNonEmpty(get, "settings.search.result_class", errs)

	raw := get("settings.search.result_class")
	if value, err := parseStrictString(raw); err == nil && strings.ContainsAny(value, " .#[]") {
		appendValidationError(errs, "settings.search.result_class must be a bare class name")
	}
}

// validateSessionConfig validates session storage settings.
func validateSessionConfig(get configGetter, errs *[]string) {
	validateOptionalIntMin(get, "settings.session.ttl_minutes", 0, errs)
	validateOptionalStringNonEmpty(get, "settings.session.cookie_name", errs)

	raw := get("settings.session.backend")
	if raw == nil {
		return
	}
	backend, err := parseStrictString(raw)
	if err != nil {
		appendValidationError(errs, "settings.session.backend must be a string")
		return
	}

	switch strings.ToLower(strings.TrimSpace(backend)) {
	case global.SessionBackendMemory:
	case global.SessionBackendRedis:
		if addr, err := parseStrictString(get("settings.db.redis.addr")); err != nil || strings.TrimSpace(addr) == "" {
			appendValidationError(errs, "settings.db.redis.addr is required when settings.session.backend is redis")
		}
	default:
		appendValidationError(errs, "settings.session.backend must be %q or %q",
			global.SessionBackendMemory, global.SessionBackendRedis)
	}
}

// validateRedisConfig validates redis-related startup configuration values.
// It accepts a getter and an error collector pointer and appends validation errors.
func validateRedisConfig(get configGetter, errs *[]string) {
	validateOptionalIntMin(get, "settings.db.redis.db", 0, errs)

	raw := get("settings.db.redis.addr")
	if raw == nil {
		return
	}
	addr, err := parseStrictString(raw)
	if err != nil || !isValidHost(addr) {
		appendValidationError(errs, "settings.db.redis.addr must be host:port")
	}
}

// validateThrottleConfig validates search rate limits. A zero total disables throttling.
func validateThrottleConfig(get configGetter, errs *[]string) {
	validateOptionalIntMin(get, "settings.throttle.total_per_sec", 0, errs)
	validateOptionalIntMin(get, "settings.throttle.total_burst", 1, errs)
	validateOptionalIntMin(get, "settings.throttle.session_per_sec", 1, errs)
	validateOptionalIntMin(get, "settings.throttle.session_burst", 1, errs)
}

// validateWebConfig validates the browser-facing server settings.
func validateWebConfig(get configGetter, errs *[]string) {
	raw := get("settings.web.allowed_origins")
	if raw == nil {
		return
	}

	hosts, err := parseStrictStringSlice(raw)
	if err != nil {
		appendValidationError(errs, "settings.web.allowed_origins must be a list of hosts")
		return
	}
	for i, host := range hosts {
		if !isValidHost(host) {
			appendValidationError(errs, "settings.web.allowed_origins[%d] must be a bare host, got %q", i, host)
		}
	}
}

// validateOptionalBool validates an optionally configured boolean key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalBool(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	if _, ok := parseStrictBool(raw); !ok {
		appendValidationError(errs, "%s must be a boolean", key)
	}
}

// validateOptionalIntMin validates an optionally configured integer key with a minimum constraint.
// It accepts a getter, the key, a minimum value, and an error collector pointer and appends validation errors.
func validateOptionalIntMin(get configGetter, key string, min int, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictInt(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be an integer", key)
		return
	}

	if value < min {
		appendValidationError(errs, "%s must be >= %d", key, min)
	}
}

// validateOptionalURL validates an optionally configured absolute URL key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalURL(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a string URL", key)
		return
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		appendValidationError(errs, "%s must not be empty", key)
		return
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		appendValidationError(errs, "%s must be a valid absolute URL", key)
	}
}

// validateOptionalStringNonEmpty validates an optionally configured non-empty string key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalStringNonEmpty(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a string", key)
		return
	}

	if strings.TrimSpace(value) == "" {
		appendValidationError(errs, "%s must not be empty", key)
	}
}

// parseStrictBool parses a value as boolean using strict conversion rules.
// It accepts a raw value and returns the parsed boolean and whether parsing succeeded.
func parseStrictBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		if math.Trunc(v) != v {
			return false, false
		}
		return int64(v) != 0, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false, false
		}
		switch strings.ToLower(trimmed) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}

// parseStrictInt parses a value as a strict integer.
// It accepts a raw value and returns the parsed int and an error when parsing fails.
func parseStrictInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if math.Trunc(v) != v {
			return 0, errors.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, errors.New("empty integer string")
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, errors.Wrap(err, "atoi")
		}
		return parsed, nil
	default:
		return 0, errors.Errorf("unsupported int type %T", value)
	}
}

// parseStrictString parses a value as a strict string.
// It accepts a raw value and returns the parsed string and an error when parsing fails.
func parseStrictString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", errors.Errorf("unsupported string type %T", value)
	}
}

// parseStrictStringSlice accepts a YAML list of strings or a comma separated string.
func parseStrictStringSlice(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, err := parseStrictString(item)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return strings.Split(v, ","), nil
	default:
		return nil, errors.Errorf("unsupported list type %T", value)
	}
}

// isValidHost validates a host string without scheme or path components.
// It accepts a host string and returns true when the host is syntactically acceptable.
func isValidHost(host string) bool {
	trimmed := strings.TrimSpace(host)
	if trimmed == "" {
		return false
	}
	if strings.Contains(trimmed, "://") || strings.Contains(trimmed, "/") {
		return false
	}
	return true
}

// appendValidationError appends a formatted validation error to the collector.
// It accepts an error slice pointer, a format string, and format arguments, and has no return value.
func appendValidationError(errs *[]string, format string, args ...any) {
	if errs == nil {
		return
	}
	*errs = append(*errs, fmt.Sprintf(format, args...))
}
