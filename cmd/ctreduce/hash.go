package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"gitee.com/jkuang/go-ctreduce/hashsel"
	"gitee.com/jkuang/go-ctreduce/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newHashCmd(opt *options) *cobra.Command {
	return &cobra.Command{
		Use:   "hash algorithm [file]",
		Short: `Print the digest of file, or of stdin, as hex.`,
		Long: `
Hash the input with the backend chosen for this CPU. The algorithm is
one of SHA-256, SHA-512 or SM3. Set ` + hashsel.EnvBackend + `=generic to
force the portable implementations.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := hashsel.Select(args[0])
			if err != nil {
				return err
			}
			logging.For("main", "hash").WithField("backend", backend.Name).
				Debugf("hashing with %s", backend.Algorithm)

			in := cmd.InOrStdin()
			name := "-"
			if len(args) == 2 {
				name = args[1]
				f, err := os.Open(name)
				if err != nil {
					return errors.Wrap(err, "hash")
				}
				defer func() { _ = f.Close() }()
				in = f
			}
			h := backend.New()
			if _, err := io.Copy(h, in); err != nil {
				return errors.Wrapf(err, "hash: reading %s", name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", hex.EncodeToString(h.Sum(nil)), name)
			return nil
		},
	}
}
