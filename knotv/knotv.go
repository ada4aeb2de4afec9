/*
Package knotv implements knot vectors for NURBS curves and surfaces.

A knot vector is a non-decreasing sequence of parameter values. Values
typically occur multiple times, and the multiplicity of a value determines
the continuity of a curve at that parameter. KnotVector therefore stores
two parallel slices: the strictly ascending distinct values and their
multiplicities.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package knotv

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'nurbs.knotv'
func tracer() tracing.Trace {
	return tracing.Select("nurbs.knotv")
}

var (
	// ErrEmpty flags an empty knot vector.
	ErrEmpty = errors.New("knot vector must not be empty")
	// ErrNotIncreasing flags knot values out of order.
	ErrNotIncreasing = errors.New("knot values must be non-decreasing")
	// ErrMultiplicity flags a non-positive multiplicity or mismatched slice lengths.
	ErrMultiplicity = errors.New("invalid knot multiplicity")
	// ErrSegmentCount flags a non-blended knot vector request where nctrl-1 is
	// not a multiple of the degree.
	ErrSegmentCount = errors.New("number of control points must be a multiple of the degree, plus one")
)

// KnotVector is an immutable knot vector. The zero value is not usable;
// create knot vectors with New, NewFromMul or Generate.
type KnotVector struct {
	val []float64 // strictly ascending distinct knot values
	mul []int     // multiplicity of val[i]
}

// Knot is a distinct knot value together with its multiplicity.
type Knot struct {
	Value float64
	Mul   int
}

// New creates a knot vector from a full sequence of non-decreasing knot
// values, e.g. [0,0,0,0.5,0.5,1,1,1]. Repeated values are collected into
// multiplicities.
func New(values []float64) (*KnotVector, error) {
	if len(values) == 0 {
		return nil, ErrEmpty
	}
	kv := &KnotVector{
		val: make([]float64, 0, len(values)),
		mul: make([]int, 0, len(values)),
	}
	for i, v := range values {
		if !nurbs.IsFinite(v) {
			return nil, fmt.Errorf("%w: knot %d", nurbs.ErrNotFinite, i)
		}
		if i > 0 && v < values[i-1] {
			return nil, fmt.Errorf("%w: knot %d = %g < %g", ErrNotIncreasing, i, v, values[i-1])
		}
		if n := len(kv.val); n > 0 && kv.val[n-1] == v {
			kv.mul[n-1]++
			continue
		}
		kv.val = append(kv.val, v)
		kv.mul = append(kv.mul, 1)
	}
	return kv, nil
}

// MustNew is like New, but panics on invalid input.
func MustNew(values []float64) *KnotVector {
	kv, err := New(values)
	if err != nil {
		panic(err)
	}
	return kv
}

// NewFromMul creates a knot vector from distinct, strictly increasing
// values and their (positive) multiplicities.
func NewFromMul(val []float64, mul []int) (*KnotVector, error) {
	if len(val) == 0 {
		return nil, ErrEmpty
	}
	if len(val) != len(mul) {
		return nil, fmt.Errorf("%w: %d values, %d multiplicities", ErrMultiplicity, len(val), len(mul))
	}
	for i := range val {
		if !nurbs.IsFinite(val[i]) {
			return nil, fmt.Errorf("%w: knot value %d", nurbs.ErrNotFinite, i)
		}
		if i > 0 && val[i] <= val[i-1] {
			return nil, fmt.Errorf("%w: value %d = %g <= %g", ErrNotIncreasing, i, val[i], val[i-1])
		}
		if mul[i] <= 0 {
			return nil, fmt.Errorf("%w: multiplicity %d of value %g", ErrMultiplicity, mul[i], val[i])
		}
	}
	return &KnotVector{
		val: append([]float64(nil), val...),
		mul: append([]int(nil), mul...),
	}, nil
}

// NKnots returns the total number of knots, i.e. the sum of multiplicities.
func (kv *KnotVector) NKnots() int {
	n := 0
	for _, m := range kv.mul {
		n += m
	}
	return n
}

// Len returns the number of distinct knot values.
func (kv *KnotVector) Len() int {
	return len(kv.val)
}

// Knots returns the knots as (value, multiplicity) pairs.
func (kv *KnotVector) Knots() []Knot {
	knots := make([]Knot, len(kv.val))
	for i := range kv.val {
		knots[i] = Knot{Value: kv.val[i], Mul: kv.mul[i]}
	}
	return knots
}

// Values returns the full expansion of the knot vector, each value repeated
// according to its multiplicity.
func (kv *KnotVector) Values() []float64 {
	values := make([]float64, 0, kv.NKnots())
	for i, v := range kv.val {
		for range kv.mul[i] {
			values = append(values, v)
		}
	}
	return values
}

// Val returns a copy of the distinct knot values.
func (kv *KnotVector) Val() []float64 {
	return append([]float64(nil), kv.val...)
}

// Mul returns a copy of the multiplicities.
func (kv *KnotVector) Mul() []int {
	return append([]int(nil), kv.mul...)
}

// First returns the smallest knot value.
func (kv *KnotVector) First() float64 {
	return kv.val[0]
}

// Last returns the largest knot value.
func (kv *KnotVector) Last() float64 {
	return kv.val[len(kv.val)-1]
}

// Index returns the index of knot value u in Val(), or -1 if u is not a knot
// value. Values are compared within a tolerance relative to the knot range.
func (kv *KnotVector) Index(u float64) int {
	tol := nurbs.Epsilon * math.Max(1, kv.Last()-kv.First())
	i := sort.SearchFloat64s(kv.val, u-tol)
	if i < len(kv.val) && math.Abs(kv.val[i]-u) <= tol {
		return i
	}
	return -1
}

// Multiplicity returns the multiplicity of knot value u, or 0 if u is not
// a knot value.
func (kv *KnotVector) Multiplicity(u float64) int {
	if i := kv.Index(u); i >= 0 {
		return kv.mul[i]
	}
	return 0
}

// Domain returns the parameter domain [U[p], U[n+1]] of a curve of the given
// degree using this knot vector.
func (kv *KnotVector) Domain(degree int) (float64, float64) {
	U := kv.Values()
	m := len(U) - 1
	return U[degree], U[m-degree]
}

// IsClamped is a predicate: do both end values have multiplicity degree+1?
func (kv *KnotVector) IsClamped(degree int) bool {
	return kv.mul[0] == degree+1 && kv.mul[len(kv.mul)-1] == degree+1
}

// Reverse returns the knot vector of the parameter-reversed curve. Values
// are mirrored within [min,max] and multiplicities reversed in lock-step.
func (kv *KnotVector) Reverse() *KnotVector {
	n := len(kv.val)
	lo, hi := kv.First(), kv.Last()
	r := &KnotVector{
		val: make([]float64, n),
		mul: make([]int, n),
	}
	for i := range n {
		r.val[n-1-i] = lo + hi - kv.val[i]
		r.mul[n-1-i] = kv.mul[i]
	}
	return r
}

// Equal compares two knot vectors. Values are compared within nurbs.Epsilon,
// multiplicities exactly.
func (kv *KnotVector) Equal(other *KnotVector) bool {
	if other == nil || len(kv.val) != len(other.val) {
		return false
	}
	for i := range kv.val {
		if kv.mul[i] != other.mul[i] || !nurbs.Is0(kv.val[i]-other.val[i]) {
			return false
		}
	}
	return true
}

// String formats a knot vector as "KnotVector: 0(3), 0.5(2), 1(3)".
func (kv *KnotVector) String() string {
	var b strings.Builder
	b.WriteString("KnotVector: ")
	for i, v := range kv.val {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte('(')
		b.WriteString(strconv.Itoa(kv.mul[i]))
		b.WriteByte(')')
	}
	return b.String()
}
