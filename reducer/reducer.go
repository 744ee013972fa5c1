// Package reducer keeps the older ModularReducer API on top of package
// barrett.
//
// New code should use barrett.Reduction directly. A ModularReducer accepts
// any non-negative operands, including ones at or above the modulus, by
// reducing the full product. Its zero value is an uninitialized reducer on
// which every operation fails with errs.ErrInvalidState.
package reducer

import (
	"gitee.com/jkuang/go-ctreduce/barrett"
	"gitee.com/jkuang/go-ctreduce/bigint"
	"gitee.com/jkuang/go-ctreduce/errs"
)

// ModularReducer reduces modulo a fixed positive modulus.
type ModularReducer struct {
	r *barrett.Reduction
}

// New returns a reducer for m built with barrett.ForSecretModulus. A zero m
// yields an uninitialized reducer; a negative m is an error.
func New(m *bigint.Int) (*ModularReducer, error) {
	if m == nil || m.IsZero() {
		return &ModularReducer{}, nil
	}
	if m.IsNegative() {
		return nil, errs.InvalidArgument("reducer: modulus must be positive")
	}
	return ForSecretModulus(m)
}

// ForSecretModulus returns a reducer that does not leak m during setup. m
// must be positive.
func ForSecretModulus(m *bigint.Int) (*ModularReducer, error) {
	r, err := barrett.ForSecretModulus(m)
	if err != nil {
		return nil, err
	}
	return &ModularReducer{r: r}, nil
}

// ForPublicModulus returns a reducer for a public m. m must be positive.
func ForPublicModulus(m *bigint.Int) (*ModularReducer, error) {
	r, err := barrett.ForPublicModulus(m)
	if err != nil {
		return nil, err
	}
	return &ModularReducer{r: r}, nil
}

// Initialized reports whether the reducer has a modulus.
func (mr *ModularReducer) Initialized() bool { return mr != nil && mr.r != nil }

// Modulus returns the modulus, or zero for an uninitialized reducer.
func (mr *ModularReducer) Modulus() *bigint.Int {
	if !mr.Initialized() {
		return bigint.New()
	}
	return mr.r.Modulus()
}

func (mr *ModularReducer) reduction() (*barrett.Reduction, error) {
	if !mr.Initialized() {
		return nil, errs.InvalidState("reducer: never initialized")
	}
	return mr.r, nil
}

// Reduce returns x mod m for non-negative x. Inputs up to m² are reduced
// in constant time.
func (mr *ModularReducer) Reduce(x *bigint.Int) (*bigint.Int, error) {
	r, err := mr.reduction()
	if err != nil {
		return nil, err
	}
	return r.Reduce(x)
}

// Multiply returns x*y mod m for non-negative x and y.
func (mr *ModularReducer) Multiply(x, y *bigint.Int) (*bigint.Int, error) {
	if _, err := mr.reduction(); err != nil {
		return nil, err
	}
	if x.IsNegative() || y.IsNegative() {
		return nil, errs.InvalidArgument("reducer: negative operand")
	}
	return mr.Reduce(bigint.Mul(x, y))
}

// Multiply3 returns x*y*z mod m.
func (mr *ModularReducer) Multiply3(x, y, z *bigint.Int) (*bigint.Int, error) {
	yz, err := mr.Multiply(y, z)
	if err != nil {
		return nil, err
	}
	return mr.Multiply(x, yz)
}

// Square returns x² mod m.
func (mr *ModularReducer) Square(x *bigint.Int) (*bigint.Int, error) {
	if _, err := mr.reduction(); err != nil {
		return nil, err
	}
	if x.IsNegative() {
		return nil, errs.InvalidArgument("reducer: negative operand")
	}
	return mr.Reduce(bigint.Sqr(x))
}

// Cube returns x³ mod m.
func (mr *ModularReducer) Cube(x *bigint.Int) (*bigint.Int, error) {
	x2, err := mr.Square(x)
	if err != nil {
		return nil, err
	}
	return mr.Multiply(x, x2)
}
