package models

import "time"

// StringValue coerces a raw document field to a string; anything else yields "".
func StringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

// BoolValue coerces a raw document field to a bool; anything else yields false.
func BoolValue(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

// TimeValue coerces a raw document field to a timestamp.
func TimeValue(v interface{}) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

// StringSlice collects the string entries of a raw array field, in order.
// Entries of any other type are dropped.
func StringSlice(v interface{}) []string {
	arr, _ := v.([]interface{})
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// TimeSlice collects the timestamp entries of a raw array field, in order.
// Entries of any other type are dropped.
func TimeSlice(v interface{}) []time.Time {
	arr, _ := v.([]interface{})
	out := make([]time.Time, 0, len(arr))
	for _, e := range arr {
		if t, ok := e.(time.Time); ok {
			out = append(out, t)
		}
	}
	return out
}
