package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt accepts a number or a numeric string. The client sends most numeric
// form values as strings, e.g. "30".
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return f.parse(s)
	}

	return fmt.Errorf("FlexInt: unexpected type, expected number or string")
}

// UnmarshalText lets form decoding fill a FlexInt
func (f *FlexInt) UnmarshalText(text []byte) error {
	return f.parse(string(text))
}

func (f *FlexInt) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*f = 0
		return nil
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("FlexInt: invalid integer string %q: %w", s, err)
	}
	*f = FlexInt(val)
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}

// IntOr returns the value, or def when it is not positive
func (f FlexInt) IntOr(def int) int {
	if f <= 0 {
		return def
	}
	return int(f)
}
