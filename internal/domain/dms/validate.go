package dms

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/landscape/backend/internal/domain/shared"
)

// ValidateAttributes checks values against attribute definitions: required
// keys present, no unknown keys, values of the declared type. It returns the
// values coerced to canonical JSON types. Field errors are reported together
// as the error's details.
func ValidateAttributes(values map[string]any, defs []Attribute) (shared.JSONMap, error) {
	problems := map[string]string{}
	out := shared.JSONMap{}
	byKey := make(map[string]Attribute, len(defs))
	for _, a := range defs {
		byKey[a.Key] = a
		v, present := values[a.Key]
		if !present || v == nil || v == "" {
			if a.Required {
				problems[a.Key] = "is required"
			}
			continue
		}
		cv, err := coerce(a, v)
		if err != nil {
			problems[a.Key] = err.Error()
			continue
		}
		out[a.Key] = cv
	}
	for k := range values {
		if _, ok := byKey[k]; !ok {
			problems[k] = "is not defined by the template"
		}
	}
	if len(problems) > 0 {
		return nil, shared.NewInvalidInputError("document attributes are invalid").WithDetails(problems)
	}
	return out, nil
}

func coerce(a Attribute, v any) (any, error) {
	switch a.DataType {
	case DataTypeText:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("must be text")
		}
		return strings.TrimSpace(s), nil
	case DataTypeNumber:
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		case json.Number:
			parsed, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("must be a number")
			}
			f = parsed
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return nil, fmt.Errorf("must be a number")
			}
			f = parsed
		default:
			return nil, fmt.Errorf("must be a number")
		}
		// NaN and infinities have no JSON encoding
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("must be a finite number")
		}
		return f, nil
	case DataTypeBoolean:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, fmt.Errorf("must be true or false")
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("must be true or false")
	case DataTypeDate:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("must be a date (YYYY-MM-DD)")
		}
		if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
			return nil, fmt.Errorf("must be a date (YYYY-MM-DD)")
		}
		return strings.TrimSpace(s), nil
	case DataTypeChoice:
		s, ok := v.(string)
		if !ok || !slices.Contains([]string(a.Options), s) {
			return nil, fmt.Errorf("must be one of %s", strings.Join(a.Options, ", "))
		}
		return s, nil
	}
	return nil, fmt.Errorf("unsupported data type %s", a.DataType)
}
