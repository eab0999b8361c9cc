package submit

import "reflect"

// mergeSeed combines static seed values with user-submitted values.
// Submitted fields win; only fields the user left at their zero value
// are filled from the seed. Both arguments must be structs (the value
// shapes of this client are all flat request structs); any other shape
// passes the submitted values through untouched.
func mergeSeed[V any](seed, values V) V {
	out := values
	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.Struct {
		return values
	}
	sv := reflect.ValueOf(seed)

	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.IsZero() {
			field.Set(sv.Field(i))
		}
	}
	return out
}
