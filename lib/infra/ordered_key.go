package infra

import "reflect"

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// Comparator
// Assume i is the value already stored and j is the probe.
//  1. i == j, return 0
//  2. i > j, return a positive number
//  3. i < j, return a negative number
type Comparator[T any] func(i, j T) int64

// OrderedComparator returns the natural ordering of K.
// NaN compares equal to NaN and less than any other float.
func OrderedComparator[K OrderedKey]() Comparator[K] {
	return func(i, j K) int64 {
		if i == j {
			return 0
		}
		if isNaN(i) {
			if isNaN(j) {
				return 0
			}
			return -1
		}
		if isNaN(j) || i > j {
			return 1
		}
		return -1
	}
}

// ReverseComparator flips the result of cmp.
func ReverseComparator[T any](cmp Comparator[T]) Comparator[T] {
	if cmp == nil {
		return nil
	}
	return func(i, j T) int64 {
		return cmp(j, i)
	}
}

func isNaN[K OrderedKey](k K) bool {
	return k != k
}

// IsNil reports whether v is a nil value of a nullable kind.
// Value kinds (ints, strings, structs) are never nil.
func IsNil[T any](v T) bool {
	anyV := any(v)
	if anyV == nil {
		return true
	}
	rv := reflect.ValueOf(anyV)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rv.IsNil()
	default:
	}
	return false
}

// IsNullable reports whether the zero value of T may be nil.
func IsNullable[T any]() bool {
	switch reflect.TypeOf((*T)(nil)).Elem().Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	default:
	}
	return false
}
