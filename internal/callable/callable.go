// Package callable wraps the reflection plumbing for invoking
// constructors and methods with positional arguments: argument
// conformance, the trailing-error convention, and panic recovery.
package callable

import (
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

var (
	// ErrNotFunc reports an invocation target that is not a function.
	ErrNotFunc = errors.New("not a function")

	// ErrNoMethod reports a method lookup that found nothing.
	ErrNoMethod = errors.New("method not found")
)

// PanicError captures a panic raised inside an invoked function.
type PanicError struct {
	Recovered any
	Stack     []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic during call: %v", e.Recovered)
}

// Invoke calls fn with the given positional arguments. The first result
// becomes the return value; a trailing error result, when non-nil, is
// returned as the error instead. A panic inside fn is recovered into
// *PanicError. Nil arguments become the parameter type's zero value, so
// an absent dependency reaches the constructor the way an unset argument
// would.
func Invoke(fn any, args []any) (any, error) {
	if fn == nil {
		return nil, ErrNotFunc
	}
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, ErrNotFunc
	}
	return call(fv, args)
}

// Method looks up a callable method on subject by name. Only the
// subject's own method set is searched: a value receiver does not gain
// its pointer methods here.
func Method(subject any, name string) (reflect.Value, error) {
	if subject == nil {
		return reflect.Value{}, ErrNoMethod
	}
	m := reflect.ValueOf(subject).MethodByName(name)
	if !m.IsValid() {
		return reflect.Value{}, ErrNoMethod
	}
	return m, nil
}

// Call invokes a method value obtained from Method with the same
// argument conformance and panic recovery as Invoke.
func Call(m reflect.Value, args []any) (any, error) {
	if !m.IsValid() || m.Kind() != reflect.Func {
		return nil, ErrNotFunc
	}
	return call(m, args)
}

func call(fv reflect.Value, args []any) (result any, err error) {
	ft := fv.Type()

	in, err := conformArgs(ft, args)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &PanicError{Recovered: r, Stack: debug.Stack()}
		}
	}()

	return splitResults(ft, fv.Call(in))
}

// conformArgs checks arity and assignability and produces the call frame.
func conformArgs(ft reflect.Type, args []any) ([]reflect.Value, error) {
	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("want at least %d arguments, have %d", fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("want %d arguments, have %d", fixed, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if i < fixed {
			pt = ft.In(i)
		} else {
			pt = ft.In(ft.NumIn() - 1).Elem()
		}

		v, err := conform(arg, pt)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = v
	}
	return in, nil
}

func conform(arg any, pt reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(pt), nil
	}
	av := reflect.ValueOf(arg)
	if at := av.Type(); !at.AssignableTo(pt) {
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", at, pt)
	}
	return av, nil
}

// splitResults applies the trailing-error convention and returns the
// first remaining result, if any.
func splitResults(ft reflect.Type, out []reflect.Value) (any, error) {
	n := ft.NumOut()
	if n == 0 {
		return nil, nil
	}

	if ft.Out(n-1) == errType {
		if e := out[n-1].Interface(); e != nil {
			return nil, e.(error)
		}
		out = out[:n-1]
	}

	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}
