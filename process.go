package eskit

import (
	"github.com/thalesfsp/configurer/util"
	"github.com/thalesfsp/sypl"
	"github.com/thalesfsp/sypl/level"

	"github.com/thalesfsp/eskit/internal/shared"
)

//////
// Const, vars, and types.
//////

// logger is the package-level logger. Quiet by default, see SetLogger.
var logger = sypl.NewDefault(shared.Name, level.Error)

//////
// Exported functionalities.
//////

// SetLogger replaces the package-level logger, e.g. to raise verbosity or to
// route output elsewhere.
func SetLogger(l *sypl.Sypl) {
	logger = l
}

//////
// Internal functionalities.
//////

// process applies `default` tags and validates the given options struct.
func process(v any) error {
	return util.Process(v)
}
