package hashsel

import (
	"encoding/hex"
	"sync"
	"testing"

	"gitee.com/jkuang/go-ctreduce/errs"
	"github.com/klauspost/cpuid/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var abcDigests = map[string]string{
	"SHA-256": "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
	"SHA-512": "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
	"SM3":     "66c7f0f462eeedd9d1f2d46bdc10e4e24167c4875cf2f7a2297da02b8f4ba8e0",
}

func digest(t *testing.T, b Backend, msg string) string {
	t.Helper()
	h := b.New()
	_, err := h.Write([]byte(msg))
	require.NoError(t, err)
	return hex.EncodeToString(h.Sum(nil))
}

func always(cpuid.FeatureID) bool { return true }

func never(cpuid.FeatureID) bool { return false }

func TestEveryBackendMatches(t *testing.T) {
	selectors := map[string]*Selector{
		"probe":    New(),
		"generic":  New(WithForceGeneric(true)),
		"simd":     New(WithFeatureCheck(always)),
		"no-accel": New(WithFeatureCheck(never)),
	}
	for name, s := range selectors {
		for algo, want := range abcDigests {
			b, err := s.Select(algo)
			require.NoError(t, err)
			assert.Equal(t, algo, b.Algorithm)
			assert.Equal(t, want, digest(t, b, "abc"), "%s %s via %s", name, algo, b.Name)
		}
	}
}

func TestBackendChoice(t *testing.T) {
	b, err := New(WithFeatureCheck(always)).Select("sha256")
	require.NoError(t, err)
	assert.Equal(t, SIMD, b.Name)

	b, err = New(WithFeatureCheck(always), WithForceGeneric(true)).Select("SHA-256")
	require.NoError(t, err)
	assert.Equal(t, Generic, b.Name)

	b, err = New(WithFeatureCheck(never)).Select("SHA_256")
	require.NoError(t, err)
	assert.Equal(t, Generic, b.Name)

	b, err = New(WithFeatureCheck(always)).Select("sm3")
	require.NoError(t, err)
	assert.Equal(t, Generic, b.Name)
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := New().Select("MD5")
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
	_, err = Select("")
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
}

func TestSelectionIsMemoized(t *testing.T) {
	calls := 0
	var mu sync.Mutex
	s := New(WithFeatureCheck(func(cpuid.FeatureID) bool {
		mu.Lock()
		calls++
		mu.Unlock()
		return false
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := s.Select("SHA-256")
			assert.NoError(t, err)
			assert.Equal(t, Generic, b.Name)
		}()
	}
	wg.Wait()
	// one probe per feature for the single selection
	assert.Equal(t, 4, calls)
}

func TestFeatures(t *testing.T) {
	assert.Len(t, New(WithFeatureCheck(always)).Features(), 5)
	assert.Empty(t, New(WithFeatureCheck(never)).Features())
}

func TestDefaultIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
	b, err := Select("SHA-512")
	require.NoError(t, err)
	assert.Equal(t, Generic, b.Name)
}
