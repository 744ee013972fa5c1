// Package barrett implements Barrett modular reduction (HAC Algorithm 14.42)
// over machine words.
//
// A Reduction is bound to one modulus m of n significant words and holds the
// precomputed reciprocal mu = floor(b^2n / m), with b = 2^W. It is immutable
// after construction and may be used from many goroutines at once as long as
// every call brings its own workspace.
//
// Multiply, Square and Reduce of inputs of at most 2n words run in time that
// depends only on n. Multiply and Square require operands in [0, m) and
// Reduce requires a non-negative input; anything else is rejected with
// errs.ErrInvalidArgument.
package barrett

import (
	"math/big"

	"gitee.com/jkuang/go-ctreduce/bigint"
	"gitee.com/jkuang/go-ctreduce/ct"
	"gitee.com/jkuang/go-ctreduce/errs"
	"gitee.com/jkuang/go-ctreduce/internal/logging"
	"gitee.com/jkuang/go-ctreduce/mp"
	"github.com/sirupsen/logrus"
)

// Reduction is a Barrett reducer bound to a single modulus.
type Reduction struct {
	modulus *bigint.Int
	m       []big.Word // n words
	mu      []big.Word // n+2 words, mu reaches b^(n+1) only for m = b^(n-1)
	n       int
	secret  bool
}

// ForSecretModulus returns a reducer for m, computing mu with a
// constant-time division so the setup does not leak m.
func ForSecretModulus(m *bigint.Int) (*Reduction, error) {
	n, err := checkModulus(m)
	if err != nil {
		return nil, err
	}
	mu, err := bigint.CtDividePow2k(2*mp.WordBits*n, m)
	if err != nil {
		return nil, err
	}
	return newReduction(m, n, mu, true)
}

// ForPublicModulus returns a reducer for m, computing mu with variable-time
// math/big division. m must be public.
func ForPublicModulus(m *bigint.Int) (*Reduction, error) {
	n, err := checkModulus(m)
	if err != nil {
		return nil, err
	}
	return newReduction(m, n, bigint.FromBig(calcMu(m.Big(), n)), false)
}

// calcMu returns b^2n / p.
func calcMu(p *big.Int, n int) *big.Int {
	n2k := new(big.Int).SetUint64(1)
	n2k.Lsh(n2k, uint(2*mp.WordBits*n))
	return n2k.Div(n2k, p)
}

func checkModulus(m *bigint.Int) (int, error) {
	if m == nil || m.IsZero() {
		return 0, errs.InvalidArgument("barrett: modulus is zero")
	}
	if m.IsNegative() {
		return 0, errs.InvalidArgument("barrett: modulus is negative")
	}
	return m.SigWords(), nil
}

func newReduction(m *bigint.Int, n int, mu *bigint.Int, secret bool) (*Reduction, error) {
	mw, err := m.Padded(n)
	if err != nil {
		return nil, err
	}
	muw, err := mu.Padded(n + 2)
	if err != nil {
		return nil, err
	}
	logging.For("barrett", "newReduction").WithFields(logrus.Fields{
		"bits":   mp.BitLen(mw),
		"words":  n,
		"secret": secret,
	}).Debug("reducer constructed")
	return &Reduction{
		modulus: bigint.FromWords(mw),
		m:       mw,
		mu:      muw,
		n:       n,
		secret:  secret,
	}, nil
}

// Modulus returns a copy of the modulus.
func (r *Reduction) Modulus() *bigint.Int { return r.modulus.Clone() }

// ModulusWords returns the significant word count n of the modulus.
func (r *Reduction) ModulusWords() int { return r.n }

// ModulusBits returns the bit length of the modulus.
func (r *Reduction) ModulusBits() int { return mp.BitLen(r.m) }

// Secret reports whether the reducer was built with ForSecretModulus.
func (r *Reduction) Secret() bool { return r.secret }

// Mu returns a copy of the precomputed reciprocal.
func (r *Reduction) Mu() *bigint.Int { return bigint.FromWords(r.mu) }

// WorkspaceWords is the number of workspace words the word-level calls use.
func (r *Reduction) WorkspaceWords() int {
	n := r.n
	// x padded, q1*mu, q3*m, remainder, trial subtraction
	return 2*n + (2*n + 3) + (2*n + 2) + (n + 1) + (n + 1)
}

// inRange reports whether the n-word or shorter slice x is below m. The
// comparison is constant time; the answer is a precondition and so public.
func (r *Reduction) inRange(x []big.Word) bool {
	lt, _ := mp.Cmp(x, r.m)
	return lt.IsSet()
}

func (r *Reduction) operand(name string, x *bigint.Int) ([]big.Word, error) {
	if x.IsNegative() {
		return nil, errs.InvalidArgument("barrett: %s is negative", name)
	}
	if !r.inRange(x.Words()) {
		return nil, errs.InvalidArgument("barrett: %s is not below the modulus", name)
	}
	return x.Padded(r.n)
}

// Multiply returns x*y mod m for x, y in [0, m).
func (r *Reduction) Multiply(x, y *bigint.Int) (*bigint.Int, error) {
	xw, err := r.operand("x", x)
	if err != nil {
		return nil, err
	}
	yw, err := r.operand("y", y)
	if err != nil {
		return nil, err
	}
	out := make([]big.Word, r.n)
	if err := r.MultiplyTo(out, xw, yw, nil); err != nil {
		return nil, err
	}
	return bigint.FromWords(out), nil
}

// Square returns x² mod m for x in [0, m).
func (r *Reduction) Square(x *bigint.Int) (*bigint.Int, error) {
	xw, err := r.operand("x", x)
	if err != nil {
		return nil, err
	}
	out := make([]big.Word, r.n)
	if err := r.SquareTo(out, xw, nil); err != nil {
		return nil, err
	}
	return bigint.FromWords(out), nil
}

// Reduce returns x mod m for non-negative x. Inputs of more than 2n
// significant words cannot use the Barrett estimate and go through
// bigint.CtModulo instead.
func (r *Reduction) Reduce(x *bigint.Int) (*bigint.Int, error) {
	if x.IsNegative() {
		return nil, errs.InvalidArgument("barrett: cannot reduce a negative value")
	}
	if x.SigWords() > 2*r.n {
		logging.For("barrett", "Reduce").WithFields(logrus.Fields{
			"words": x.SigWords(),
			"limit": 2 * r.n,
		}).Debug("input too wide, using long division")
		res, err := bigint.CtModulo(x, r.modulus)
		if err != nil {
			return nil, err
		}
		return res, nil
	}
	out := make([]big.Word, r.n)
	if err := r.ReduceTo(out, x.Words()[:x.SigWords()], nil); err != nil {
		return nil, err
	}
	return bigint.FromWords(out), nil
}

// MultiplyTo writes x*y mod m to out[:n] for n-word operands below m. out
// must not overlap x, y or the workspace.
func (r *Reduction) MultiplyTo(out, x, y []big.Word, ws *mp.Workspace) error {
	if len(x) != r.n || len(y) != r.n || len(out) < r.n {
		return errs.InvalidArgument("barrett: operands must be %d words", r.n)
	}
	if mp.Overlaps(out, x) || mp.Overlaps(out, y) {
		return errs.InvalidArgument("barrett: output aliases an input")
	}
	if !r.inRange(x) || !r.inRange(y) {
		return errs.InvalidArgument("barrett: operand is not below the modulus")
	}
	t, err := r.scratch(ws, out, x, y)
	if err != nil {
		return err
	}
	mp.Mul(t.x, x, y)
	r.reduce(out, t)
	return nil
}

// SquareTo writes x² mod m to out[:n] for an n-word operand below m.
func (r *Reduction) SquareTo(out, x []big.Word, ws *mp.Workspace) error {
	if len(x) != r.n || len(out) < r.n {
		return errs.InvalidArgument("barrett: operand must be %d words", r.n)
	}
	if mp.Overlaps(out, x) {
		return errs.InvalidArgument("barrett: output aliases the input")
	}
	if !r.inRange(x) {
		return errs.InvalidArgument("barrett: operand is not below the modulus")
	}
	t, err := r.scratch(ws, out, x)
	if err != nil {
		return err
	}
	mp.Sqr(t.x, x)
	r.reduce(out, t)
	return nil
}

// ReduceTo writes x mod m to out[:n] for x of at most 2n words. out must not
// overlap x or the workspace.
func (r *Reduction) ReduceTo(out, x []big.Word, ws *mp.Workspace) error {
	if len(out) < r.n {
		return errs.InvalidArgument("barrett: output has %d words, need %d", len(out), r.n)
	}
	if mp.SigWords(x) > 2*r.n {
		return errs.InvalidArgument("barrett: input exceeds %d words", 2*r.n)
	}
	if mp.Overlaps(out, x) {
		return errs.InvalidArgument("barrett: output aliases the input")
	}
	t, err := r.scratch(ws, out, x)
	if err != nil {
		return err
	}
	k := len(x)
	if k > 2*r.n {
		k = 2 * r.n
	}
	copy(t.x, x[:k])
	r.reduce(out, t)
	return nil
}

type scratch struct {
	x, q2, qm, rem, sub []big.Word
}

func (r *Reduction) scratch(ws *mp.Workspace, operands ...[]big.Word) (*scratch, error) {
	n := r.n
	buf := ws.Get(r.WorkspaceWords())
	for _, o := range operands {
		if mp.Overlaps(buf, o) {
			return nil, errs.InvalidArgument("barrett: workspace aliases an operand")
		}
	}
	t := &scratch{}
	t.x, buf = buf[:2*n], buf[2*n:]
	t.q2, buf = buf[:2*n+3], buf[2*n+3:]
	t.qm, buf = buf[:2*n+2], buf[2*n+2:]
	t.rem, buf = buf[:n+1], buf[n+1:]
	t.sub = buf[:n+1]
	return t, nil
}

// quotient estimates floor(x / m) for a 2n-word x into q2 (2n+3 words):
// q1 = floor(x / b^(n-1)), q3 = floor(q1*mu / b^(n+1)). The estimate is at
// most two below the true quotient. The returned n+1 words alias q2.
func (r *Reduction) quotient(q2, x []big.Word) []big.Word {
	n := r.n
	mp.Mul(q2, x[n-1:2*n], r.mu)
	return q2[n+1 : 2*n+2]
}

// reduce writes t.x mod m to out and wipes the scratch space.
func (r *Reduction) reduce(out []big.Word, t *scratch) {
	n := r.n
	q3 := r.quotient(t.q2, t.x)
	mp.Mul(t.qm, q3, r.m)
	// r = (x - q3*m) mod b^(n+1); dropping the final borrow adds b^(n+1)
	// exactly when the difference went negative
	mp.Sub3(t.rem, t.x[:n+1], t.qm[:n+1])
	// q3 underestimates the quotient by at most two
	for i := 0; i < 2; i++ {
		borrow := mp.Sub3(t.sub, t.rem, r.m)
		ct.IsZero(borrow).ConditionalCopy(t.rem, t.sub)
	}
	copy(out[:n], t.rem[:n])
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
	ct.Wipe(t.x)
	ct.Wipe(t.q2)
	ct.Wipe(t.qm)
	ct.Wipe(t.rem)
	ct.Wipe(t.sub)
}
