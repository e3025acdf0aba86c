package pluginmodule

import (
	"reflect"
)

// sizedCopy fills dst with the fields of src that lie entirely within the
// first declared bytes of the record. Fields past that prefix are never read
// and keep the zero value of dst, which must be freshly zeroed. A declared
// size larger than the host record is capped at the host record.
func sizedCopy[T any](dst, src *T, declared uintptr) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()

	if limit := dv.Type().Size(); declared > limit {
		declared = limit
	}

	if dv.Kind() != reflect.Struct {
		if declared >= dv.Type().Size() {
			dv.Set(sv)
		}
		return
	}

	t := dv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Offset+f.Type.Size() > declared {
			// Fields are laid out in offset order
			break
		}
		if !dv.Field(i).CanSet() {
			continue
		}
		dv.Field(i).Set(sv.Field(i))
	}
}
