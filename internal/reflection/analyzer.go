// Package reflection analyzes constructor functions and struct prototypes
// for the container. Analysis runs once, at factory construction time; the
// results are stored on the factory record so resolution never re-inspects
// types.
package reflection

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNilConstructor = errors.New("constructor is nil")
	ErrNotFunc        = errors.New("not a function")
	ErrVariadic       = errors.New("variadic functions are not supported")
	ErrNoReturn       = errors.New("function must return at least one value")
	ErrTooManyReturns = errors.New("function must return at most two values")
	ErrSecondNotError = errors.New("second return value must be error")
	ErrNotStruct      = errors.New("not a struct or pointer to struct")
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// FuncInfo holds the analysis of a constructor function.
type FuncInfo struct {
	// Value is the reflected function, ready to Call.
	Value reflect.Value

	// Type is Value's function type.
	Type reflect.Type

	// NumIn is the parameter count.
	NumIn int

	// ReturnsError reports whether the function has a trailing error result.
	ReturnsError bool
}

// AnalyzeFunc validates that fn is a non-variadic function returning a value
// and an optional error, and returns its analysis.
func AnalyzeFunc(fn any) (*FuncInfo, error) {
	if fn == nil {
		return nil, ErrNilConstructor
	}

	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: got %T", ErrNotFunc, fn)
	}
	if v.IsNil() {
		return nil, ErrNilConstructor
	}

	t := v.Type()
	if t.IsVariadic() {
		return nil, ErrVariadic
	}

	switch t.NumOut() {
	case 0:
		return nil, ErrNoReturn
	case 1:
	case 2:
		if !t.Out(1).Implements(errType) {
			return nil, fmt.Errorf("%w: got %s", ErrSecondNotError, t.Out(1))
		}
	default:
		return nil, ErrTooManyReturns
	}

	return &FuncInfo{
		Value:        v,
		Type:         t,
		NumIn:        t.NumIn(),
		ReturnsError: t.NumOut() == 2,
	}, nil
}

// Call invokes the analyzed function with args, zero-filling nil arguments
// and checking assignability of each argument to its parameter type.
func (f *FuncInfo) Call(args []any) (any, error) {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		pt := f.Type.In(i)
		if arg == nil {
			in[i] = reflect.Zero(pt)
			continue
		}

		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("argument %d: %s is not assignable to %s", i, av.Type(), pt)
		}
		in[i] = av
	}

	out := f.Value.Call(in)
	if f.ReturnsError && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// StructInfo holds the analysis of a struct prototype. Dependencies are
// injected positionally into the exported fields, in declaration order.
type StructInfo struct {
	// Type is the struct type (after dereferencing a pointer prototype).
	Type reflect.Type

	// Pointer reports whether instances should be returned as *T.
	Pointer bool

	// Fields are the indices of the exported fields, in declaration order.
	Fields []int
}

// AnalyzeStruct validates that prototype is a struct or pointer to struct and
// records its exported fields.
func AnalyzeStruct(prototype any) (*StructInfo, error) {
	if prototype == nil {
		return nil, fmt.Errorf("%w: got nil", ErrNotStruct)
	}

	t := reflect.TypeOf(prototype)
	pointer := false
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		pointer = true
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", ErrNotStruct, prototype)
	}

	var fields []int
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			fields = append(fields, i)
		}
	}

	return &StructInfo{Type: t, Pointer: pointer, Fields: fields}, nil
}

// New builds an instance of the analyzed struct, assigning args to the
// exported fields positionally. len(args) must equal len(s.Fields).
func (s *StructInfo) New(args []any) (any, error) {
	v := reflect.New(s.Type)
	elem := v.Elem()

	for i, arg := range args {
		field := elem.Field(s.Fields[i])
		if arg == nil {
			continue
		}

		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(field.Type()) {
			name := s.Type.Field(s.Fields[i]).Name
			return nil, fmt.Errorf("field %s: %s is not assignable to %s", name, av.Type(), field.Type())
		}
		field.Set(av)
	}

	if s.Pointer {
		return v.Interface(), nil
	}
	return elem.Interface(), nil
}
