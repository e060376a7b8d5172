package scenario

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/jobshop-sim/jobshop-sim/jobshop"
	"github.com/jobshop-sim/jobshop-sim/jobshop/experiment"
)

// Setter resolves a dotted property path (e.g. "horizon",
// "workstations.W2.rule", "sources.0.dueDateFactor") against a
// *scenario.Template's underlying Scenario via reflection, and is the
// concrete implementation of the experiment.Setter interface the
// factor-sweep driver consumes without knowing how paths resolve
// (spec.md §9's design note, realized per SPEC_FULL.md §6: "no
// third-party reflection library exists in the pack, so this one
// ambient piece is justified as stdlib-only").
//
// Each path segment after the first either:
//   - names a struct field, matched case-insensitively against its
//     `yaml` tag (falling back to the Go field name), or
//   - indexes a slice: a segment that parses as an integer is a
//     positional index; otherwise it is matched against the slice
//     element's ID or Name field (workstations keyed by ID, sources
//     keyed by Name, the same keys their YAML definitions use).
type Setter struct{}

func (Setter) Set(tmpl experiment.Template, path string, value any) error {
	t, ok := tmpl.(*Template)
	if !ok {
		return &jobshop.ConfigurationError{Path: path, Reason: "scenario.Setter only supports *scenario.Template"}
	}
	segments := strings.Split(path, ".")
	v := reflect.ValueOf(t.Scenario).Elem()
	for i, seg := range segments {
		last := i == len(segments)-1
		next, err := step(v, seg)
		if err != nil {
			return &jobshop.ConfigurationError{Path: path, Reason: err.Error()}
		}
		if last {
			return assign(next, value, path)
		}
		v = next
	}
	return &jobshop.ConfigurationError{Path: path, Reason: "empty property path"}
}

// step descends one segment into v, which must be a struct or a slice.
func step(v reflect.Value, seg string) (reflect.Value, error) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil pointer at %q", seg)
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		return stepStruct(v, seg)
	case reflect.Slice:
		return stepSlice(v, seg)
	default:
		return reflect.Value{}, fmt.Errorf("cannot descend into %s at %q", v.Kind(), seg)
	}
}

func stepStruct(v reflect.Value, seg string) (reflect.Value, error) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("yaml")
		if comma := strings.Index(name, ","); comma >= 0 {
			name = name[:comma]
		}
		if name == "" {
			name = f.Name
		}
		if strings.EqualFold(name, seg) || strings.EqualFold(f.Name, seg) {
			return v.Field(i), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("no field %q on %s", seg, t.Name())
}

func stepSlice(v reflect.Value, seg string) (reflect.Value, error) {
	if idx, err := strconv.Atoi(seg); err == nil {
		if idx < 0 || idx >= v.Len() {
			return reflect.Value{}, fmt.Errorf("index %d out of range (len %d)", idx, v.Len())
		}
		return v.Index(idx), nil
	}
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if key, ok := elementKey(elem); ok && key == seg {
			return elem, nil
		}
	}
	return reflect.Value{}, fmt.Errorf("no element keyed %q", seg)
}

// elementKey returns a slice element's ID or Name field, for
// ID/Name-keyed lookups (workstations.W2..., sources.src1...).
func elementKey(elem reflect.Value) (string, bool) {
	for elem.Kind() == reflect.Ptr {
		if elem.IsNil() {
			return "", false
		}
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return "", false
	}
	for _, field := range []string{"ID", "Name"} {
		f := elem.FieldByName(field)
		if f.IsValid() && f.Kind() == reflect.String {
			return f.String(), true
		}
	}
	return "", false
}

// assign coerces value into dst's type and sets it. Numeric factor
// values commonly arrive as float64 (YAML/JSON's natural numeric type)
// even when the destination field is an int, so assign converts between
// numeric kinds rather than requiring an exact type match.
func assign(dst reflect.Value, value any, path string) error {
	if !dst.CanSet() {
		return &jobshop.ConfigurationError{Path: path, Reason: "field is not settable"}
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	if rv.Type().AssignableTo(dst.Type()) {
		dst.Set(rv)
		return nil
	}
	if rv.Type().ConvertibleTo(dst.Type()) && isNumericKind(rv.Kind()) && isNumericKind(dst.Kind()) {
		dst.Set(rv.Convert(dst.Type()))
		return nil
	}
	return &jobshop.ConfigurationError{Path: path, Reason: fmt.Sprintf("cannot assign %T to %s", value, dst.Type())}
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
