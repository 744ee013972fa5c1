//go:build !shamirs
// +build !shamirs

package ctreduce

// bShamirs selects single-pass u1·G + u2·Q verification.
const bShamirs = false
