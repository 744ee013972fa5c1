package main

import (
	"fmt"
	"math/big"
	"strings"

	"gitee.com/jkuang/go-ctreduce/bigint"
	"gitee.com/jkuang/go-ctreduce/errs"
	"gitee.com/jkuang/go-ctreduce/internal/logging"
	"github.com/spf13/cobra"
)

// options holds the persistent flags.
type options struct {
	verbose bool
	base    int
}

func newRootCmd() *cobra.Command {
	opt := &options{}
	root := &cobra.Command{
		Use:   "ctreduce",
		Short: `Constant-time modular reduction tools`,
		Long: `
Reduce, multiply and Montgomery-reduce integers with the constant-time
reducers, hash data with the CPU-selected backends and run randomized
self tests against math/big.

Numbers are read as decimal, or as hex with a 0x prefix. Use --base to
force a base.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetVerbose(opt.verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&opt.verbose, "verbose", "v", false, "Log construction details at debug level")
	root.PersistentFlags().IntVarP(&opt.base, "base", "", 0, "Base of numeric arguments and output (0 means auto)")

	root.AddCommand(
		newReduceCmd(opt),
		newMulmodCmd(opt),
		newRedcCmd(opt),
		newHashCmd(opt),
		newSelftestCmd(opt),
	)
	return root
}

// parseNumber reads a non-negative integer in the configured base.
func (opt *options) parseNumber(name, s string) (*bigint.Int, error) {
	base := opt.base
	if (base == 0 || base == 16) && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		s, base = s[2:], 16
	}
	if base == 0 {
		base = 10
	}
	x, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, errs.InvalidArgument("%s: cannot parse %q in base %d", name, s, base)
	}
	if x.Sign() < 0 {
		return nil, errs.InvalidArgument("%s: must not be negative", name)
	}
	return bigint.FromBig(x), nil
}

// format prints x in the output base.
func (opt *options) format(x *bigint.Int) string {
	switch opt.base {
	case 0, 10:
		return x.Text(10)
	case 16:
		return "0x" + x.Text(16)
	}
	return x.Text(opt.base)
}

func (opt *options) println(cmd *cobra.Command, x *bigint.Int) {
	fmt.Fprintln(cmd.OutOrStdout(), opt.format(x))
}
