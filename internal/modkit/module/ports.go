package module

import (
	"fmt"
	"reflect"
)

// PortsOf returns the first port in m's bundle that satisfies T.
// The bundle itself is tried first, then its exported struct fields in
// declaration order; nil fields never match.
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	bundle := m.Ports()
	if bundle == nil {
		return zero, false
	}
	if v, ok := bundle.(T); ok {
		return v, true
	}

	rv := reflect.Indirect(reflect.ValueOf(bundle))
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		f := rv.Field(i)
		if !f.CanInterface() || nilable(f) && f.IsNil() {
			continue
		}
		if v, ok := f.Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for bootstrap code, where a missing port is a wiring bug
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic(fmt.Sprintf("module %q exposes no %s port", m.Name(), reflect.TypeFor[T]()))
	}
	return v
}

func nilable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
