// Package hashsel picks the compression routine for a hash algorithm once,
// from the CPU features of the running machine, and hands out constructors
// for it.
package hashsel

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"os"
	"strings"
	"sync"

	"gitee.com/jkuang/go-ctreduce/errs"
	"gitee.com/jkuang/go-ctreduce/internal/logging"
	"gitee.com/jkuang/go-ctreduce/sm3"
	"github.com/klauspost/cpuid/v2"
	simd "github.com/minio/sha256-simd"
	"github.com/sirupsen/logrus"
)

// EnvBackend names the environment variable that forces the portable
// backends for the Default selector when set to "generic".
const EnvBackend = "CTREDUCE_HASH_BACKEND"

// Backend names
const (
	Generic = "generic"
	SIMD    = "sha256-simd"
)

// Backend is a selected implementation of one algorithm.
type Backend struct {
	Algorithm string
	Name      string
	New       func() hash.Hash
}

// Option configures a Selector.
type Option func(*Selector)

// WithForceGeneric makes every selection return the portable backend.
func WithForceGeneric(force bool) Option {
	return func(s *Selector) { s.forceGeneric = force }
}

// WithFeatureCheck replaces the CPU feature probe.
func WithFeatureCheck(has func(cpuid.FeatureID) bool) Option {
	return func(s *Selector) { s.has = has }
}

// Selector memoizes one backend per algorithm.
type Selector struct {
	forceGeneric bool
	has          func(cpuid.FeatureID) bool

	mu    sync.Mutex
	cache map[string]Backend
}

// New returns a Selector probing the running CPU.
func New(opts ...Option) *Selector {
	s := &Selector{
		has:   cpuid.CPU.Has,
		cache: make(map[string]Backend),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// shaAccelerated reports whether sha256-simd has a hardware path here.
func (s *Selector) shaAccelerated() bool {
	return s.has(cpuid.SHA) || s.has(cpuid.AVX2) || s.has(cpuid.AVX512F) || s.has(cpuid.SHA2)
}

func canonical(algo string) string {
	switch strings.ToUpper(strings.ReplaceAll(algo, "_", "-")) {
	case "SHA-256", "SHA256":
		return "SHA-256"
	case "SHA-512", "SHA512":
		return "SHA-512"
	case "SM3":
		return "SM3"
	}
	return ""
}

// Select returns the backend for algo. The first call per algorithm makes
// the choice; later calls return the same backend.
func (s *Selector) Select(algo string) (Backend, error) {
	name := canonical(algo)
	if name == "" {
		return Backend{}, errs.InvalidArgument("hashsel: unknown algorithm %q", algo)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.cache[name]; ok {
		return b, nil
	}

	b := Backend{Algorithm: name, Name: Generic}
	switch name {
	case "SHA-256":
		b.New = sha256.New
		if !s.forceGeneric && s.shaAccelerated() {
			b.Name, b.New = SIMD, simd.New
		}
	case "SHA-512":
		b.New = sha512.New
	case "SM3":
		b.New = sm3.New
	}
	s.cache[name] = b

	logging.For("hashsel", "Select").WithFields(logrus.Fields{
		"algorithm": name,
		"backend":   b.Name,
		"forced":    s.forceGeneric,
	}).Debug("hash backend selected")
	return b, nil
}

// Features lists the CPU features the probe reports.
func (s *Selector) Features() []string {
	var out []string
	for _, f := range []cpuid.FeatureID{cpuid.SHA, cpuid.AVX2, cpuid.AVX512F, cpuid.SHA2, cpuid.ASIMD} {
		if s.has(f) {
			out = append(out, f.String())
		}
	}
	return out
}

var (
	defaultOnce sync.Once
	defaultSel  *Selector
)

// Default returns the process-wide selector. It honours EnvBackend.
func Default() *Selector {
	defaultOnce.Do(func() {
		defaultSel = New(WithForceGeneric(strings.EqualFold(os.Getenv(EnvBackend), Generic)))
	})
	return defaultSel
}

// Select is Default().Select(algo).
func Select(algo string) (Backend, error) {
	return Default().Select(algo)
}
