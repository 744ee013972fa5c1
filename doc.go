// Package ctreduce is a constant-time modular arithmetic engine and the
// primitives built on it.
//
// The arithmetic lives in sub-packages: mp holds the word-level kernels and
// Montgomery reduction, bigint the signed-magnitude integer, barrett the
// Barrett reducer, reducer the legacy ModularReducer facade and monty the
// Montgomery-form integers. pcurves and x25519 are curve arithmetic on top
// of them.
//
// This package itself provides ECDSA over any pcurves.Curve, as a caller of
// the reducers.
package ctreduce
