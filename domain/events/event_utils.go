package events

import "reflect"

// ExtractEventID returns the EventID field of an event, or "" when it has none
func ExtractEventID(event Event) string {
	return stringField(event, "EventID")
}

// ExtractVersion returns the store version carried by an event, or 0 when it has none
func ExtractVersion(event Event) uint64 {
	val := reflect.ValueOf(event)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return 0
	}
	f := val.FieldByName("Version")
	if f.IsValid() && f.Kind() == reflect.Uint64 {
		return f.Uint()
	}
	return 0
}

func stringField(event Event, name string) string {
	val := reflect.ValueOf(event)

	// If it's a pointer, get the underlying element
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() == reflect.Struct {
		f := val.FieldByName(name)
		if f.IsValid() && f.Kind() == reflect.String {
			return f.String()
		}
	}

	return ""
}
