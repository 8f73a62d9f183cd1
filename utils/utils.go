package utils

import (
	"fmt"
	"strconv"
)

// ToFloat64 converts a dynamically typed record value to float64. Numeric
// strings are parsed; anything else reports false.
func ToFloat64(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	case []byte:
		if f, err := strconv.ParseFloat(string(v), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Helper function to convert interface{} to float64
func ConvertToFloat64(v interface{}) float64 {
	f, _ := ToFloat64(v)
	return f
}

// ToInt64 converts a dynamically typed record value to int64, used for
// event identifiers. Floating values must be integral.
func ToInt64(v interface{}) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float32:
		if float32(int64(v)) == v {
			return int64(v), true
		}
	case float64:
		if float64(int64(v)) == v {
			return int64(v), true
		}
	case string:
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i, true
		}
	case []byte:
		if i, err := strconv.ParseInt(string(v), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

// Helper function to convert interface{} to string
func ToString(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ConvertToStringKeyMap converts maps decoded from msgpack or yaml, whose
// keys are interface{}, into string keyed maps, recursively.
func ConvertToStringKeyMap(v interface{}) interface{} {
	switch v := v.(type) {
	case map[interface{}]interface{}:
		strMap := make(map[string]interface{}, len(v))
		for key, value := range v {
			strMap[ToString(key)] = ConvertToStringKeyMap(value)
		}
		return strMap
	case []interface{}:
		for i, val := range v {
			v[i] = ConvertToStringKeyMap(val)
		}
		return v
	case map[string]interface{}:
		for key, value := range v {
			v[key] = ConvertToStringKeyMap(value)
		}
		return v
	default:
		return v
	}
}
