package tablesplit

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log is the package-wide logger. It discards output until a caller (the
// CLI, a test) redirects it.
var Log = logrus.New()

func init() {
	Log.SetOutput(io.Discard)
}
