// Package logging provides the structured logger used across the module.
//
// Only public data is ever logged: bit lengths, word counts, construction
// modes and backend names. Operand values, scalars and keys never are.
package logging

import (
	"github.com/sirupsen/logrus"
)

// For returns a logrus entry tagged with the package and function names.
func For(pkg, function string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"package":  pkg,
		"function": function,
	})
}

// SetVerbose switches the standard logger between Debug and Warn levels.
func SetVerbose(verbose bool) {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	logrus.SetLevel(logrus.WarnLevel)
}
