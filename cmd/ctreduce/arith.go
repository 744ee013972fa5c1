package main

import (
	"math/big"

	"gitee.com/jkuang/go-ctreduce/barrett"
	"gitee.com/jkuang/go-ctreduce/bigint"
	"gitee.com/jkuang/go-ctreduce/errs"
	"gitee.com/jkuang/go-ctreduce/internal/logging"
	"gitee.com/jkuang/go-ctreduce/monty"
	"gitee.com/jkuang/go-ctreduce/reducer"
	"github.com/spf13/cobra"
)

func newReducer(m *bigint.Int, secret bool) (*reducer.ModularReducer, error) {
	if secret {
		return reducer.ForSecretModulus(m)
	}
	return reducer.ForPublicModulus(m)
}

func newReduction(m *bigint.Int, secret bool) (*barrett.Reduction, error) {
	if secret {
		return barrett.ForSecretModulus(m)
	}
	return barrett.ForPublicModulus(m)
}

func newReduceCmd(opt *options) *cobra.Command {
	var secret bool
	cmd := &cobra.Command{
		Use:   "reduce modulus x",
		Short: `Print x mod modulus.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opt.parseNumber("modulus", args[0])
			if err != nil {
				return err
			}
			x, err := opt.parseNumber("x", args[1])
			if err != nil {
				return err
			}
			mr, err := newReducer(m, secret)
			if err != nil {
				return err
			}
			logging.For("main", "reduce").WithField("secret", secret).
				Debugf("reducing %d bits modulo %d bits", x.BitLen(), m.BitLen())
			r, err := mr.Reduce(x)
			if err != nil {
				return err
			}
			opt.println(cmd, r)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&secret, "secret", "s", false, "Treat the modulus as secret")
	return cmd
}

func newMulmodCmd(opt *options) *cobra.Command {
	var secret bool
	cmd := &cobra.Command{
		Use:   "mulmod modulus x y",
		Short: `Print x·y mod modulus for x, y below the modulus.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opt.parseNumber("modulus", args[0])
			if err != nil {
				return err
			}
			x, err := opt.parseNumber("x", args[1])
			if err != nil {
				return err
			}
			y, err := opt.parseNumber("y", args[2])
			if err != nil {
				return err
			}
			red, err := newReduction(m, secret)
			if err != nil {
				return err
			}
			r, err := red.Multiply(x, y)
			if err != nil {
				return err
			}
			opt.println(cmd, r)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&secret, "secret", "s", false, "Treat the modulus as secret")
	return cmd
}

func newRedcCmd(opt *options) *cobra.Command {
	return &cobra.Command{
		Use:   "redc p z",
		Short: `Print z·R⁻¹ mod p, the Montgomery reduction of z < p².`,
		Long: `
Montgomery-reduce z modulo the odd p. R is 2^(w·n) where w is the word
size and n the number of words in p, so the result depends on the
platform word size.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opt.parseNumber("p", args[0])
			if err != nil {
				return err
			}
			z, err := opt.parseNumber("z", args[1])
			if err != nil {
				return err
			}
			params, err := monty.NewParams(p)
			if err != nil {
				return err
			}
			if z.Cmp(bigint.Sqr(p)) >= 0 {
				return errs.InvalidArgument("z must be below p²")
			}
			zw, err := z.Padded(2 * params.Words())
			if err != nil {
				return err
			}
			out := make([]big.Word, params.Words())
			if err := params.Redc(out, zw, nil); err != nil {
				return err
			}
			opt.println(cmd, bigint.FromWords(out))
			return nil
		},
	}
}
