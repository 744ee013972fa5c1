package main

import (
	"fmt"
	"math/big"
	"math/rand"
	"time"

	"gitee.com/jkuang/go-ctreduce/barrett"
	"gitee.com/jkuang/go-ctreduce/bigint"
	"gitee.com/jkuang/go-ctreduce/internal/logging"
	"gitee.com/jkuang/go-ctreduce/monty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const maxSelftestBits = 1024

func newSelftestCmd(opt *options) *cobra.Command {
	var (
		rounds int
		seed   int64
	)
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: `Cross-check random Barrett and Montgomery operations against math/big.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			logging.For("main", "selftest").WithField("seed", seed).Debugf("running %d rounds", rounds)
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < rounds; i++ {
				if err := selftestRound(rng); err != nil {
					return errors.Wrapf(err, "round %d (seed %d)", i, seed)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d rounds\n", rounds)
			return nil
		},
	}
	cmd.Flags().IntVarP(&rounds, "rounds", "n", 100, "Number of random moduli to test")
	cmd.Flags().Int64VarP(&seed, "seed", "", 0, "Seed for the random inputs (0 picks one)")
	return cmd
}

// randomOdd returns an odd number of exactly bits bits.
func randomOdd(rng *rand.Rand, bits int) *big.Int {
	m := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	m.SetBit(m, bits-1, 1)
	m.SetBit(m, 0, 1)
	return m
}

func mismatch(op string, m, want *big.Int, got *bigint.Int) error {
	return errors.Errorf("%s modulo %s: want %s, got %s", op, m.Text(16), want.Text(16), got.Text(16))
}

func selftestRound(rng *rand.Rand) error {
	bits := 2 + rng.Intn(maxSelftestBits-1)
	m := randomOdd(rng, bits)
	x := new(big.Int).Rand(rng, m)
	y := new(big.Int).Rand(rng, m)
	wide := new(big.Int).Rand(rng, new(big.Int).Mul(m, m))

	for _, secret := range []bool{false, true} {
		var (
			r   *barrett.Reduction
			err error
		)
		if secret {
			r, err = barrett.ForSecretModulus(bigint.FromBig(m))
		} else {
			r, err = barrett.ForPublicModulus(bigint.FromBig(m))
		}
		if err != nil {
			return err
		}

		got, err := r.Reduce(bigint.FromBig(wide))
		if err != nil {
			return err
		}
		if want := new(big.Int).Mod(wide, m); got.Big().Cmp(want) != 0 {
			return mismatch("reduce", m, want, got)
		}
		got, err = r.Multiply(bigint.FromBig(x), bigint.FromBig(y))
		if err != nil {
			return err
		}
		if want := new(big.Int).Mod(new(big.Int).Mul(x, y), m); got.Big().Cmp(want) != 0 {
			return mismatch("multiply", m, want, got)
		}
		got, err = r.Square(bigint.FromBig(x))
		if err != nil {
			return err
		}
		if want := new(big.Int).Mod(new(big.Int).Mul(x, x), m); got.Big().Cmp(want) != 0 {
			return mismatch("square", m, want, got)
		}
	}

	params, err := monty.NewParams(bigint.FromBig(m))
	if err != nil {
		return err
	}
	mx, err := monty.FromBigint(params, bigint.FromBig(x))
	if err != nil {
		return err
	}
	my, err := monty.FromBigint(params, bigint.FromBig(y))
	if err != nil {
		return err
	}
	if want := new(big.Int).Mod(new(big.Int).Mul(x, y), m); mx.Mul(my).Value().Big().Cmp(want) != 0 {
		return mismatch("montgomery multiply", m, want, mx.Mul(my).Value())
	}
	if want := new(big.Int).Mod(new(big.Int).Add(x, y), m); mx.Add(my).Value().Big().Cmp(want) != 0 {
		return mismatch("montgomery add", m, want, mx.Add(my).Value())
	}
	return nil
}
