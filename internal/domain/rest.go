package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RestSeconds is a rest period between sets. On the wire it accepts a number
// of seconds or a string such as "90", "90s", "1m30s", "2 min" or "45 seconds".
type RestSeconds int

// ParseRest converts the textual forms accepted by RestSeconds.
func ParseRest(s string) (RestSeconds, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("rest must not be negative: %q", s)
		}
		return RestSeconds(n), nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("rest must not be negative: %q", s)
		}
		return RestSeconds(d / time.Second), nil
	}

	fields := strings.Fields(s)
	if len(fields) == 2 {
		n, err := strconv.Atoi(fields[0])
		if err == nil && n >= 0 {
			switch fields[1] {
			case "s", "sec", "secs", "second", "seconds":
				return RestSeconds(n), nil
			case "m", "min", "mins", "minute", "minutes":
				return RestSeconds(n * 60), nil
			}
		}
	}
	return 0, fmt.Errorf("unrecognized rest value %q", s)
}

// Duration converts to time.Duration.
func (r RestSeconds) Duration() time.Duration {
	return time.Duration(r) * time.Second
}

func (r *RestSeconds) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < 0 {
			return fmt.Errorf("rest must not be negative: %d", n)
		}
		*r = RestSeconds(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("rest: expected number or string: %w", err)
	}
	parsed, err := ParseRest(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// UnmarshalTOML accepts the same forms as UnmarshalJSON.
func (r *RestSeconds) UnmarshalTOML(v any) error {
	switch value := v.(type) {
	case int64:
		if value < 0 {
			return fmt.Errorf("rest must not be negative: %d", value)
		}
		*r = RestSeconds(value)
		return nil
	case string:
		parsed, err := ParseRest(value)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	}
	return fmt.Errorf("rest: expected integer or string, got %T", v)
}
