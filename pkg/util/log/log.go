package log

import (
	"os"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Logger is the shared application logger. Binaries swap it out at
// startup; the default writes logfmt to stderr at info level.
var Logger = New("info")

// New builds a logfmt logger filtered to the named level.
func New(lvl string) kitlog.Logger {
	l := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))

	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}

	return level.NewFilter(l, opt)
}
