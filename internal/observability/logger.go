package observability

import (
	"io"
	"os"

	"github.com/danmuck/otrwire/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs the process logger on stderr, tagged with app. Level,
// color and timestamps come from the resolved logging config, so env
// overrides survive.
func InitLogger(app string) zerolog.Logger {
	logger := newAppLogger(logging.Resolved(), os.Stderr, app)
	log.Logger = logger
	return logger
}

func newAppLogger(cfg logging.Config, out io.Writer, app string) zerolog.Logger {
	return cfg.NewLogger(out).Str("app", app).Logger()
}
