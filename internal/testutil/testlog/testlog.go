// Package testlog routes the global zerolog logger into the running test.
package testlog

import (
	"testing"

	"github.com/danmuck/otrwire/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Start sends log output to t for the duration of the test and restores the
// previous global logger on cleanup.
func Start(t testing.TB) {
	t.Helper()
	logging.ConfigureTests()
	prev := log.Logger
	log.Logger = zerolog.New(zerolog.NewTestWriter(t)).With().Str("test", t.Name()).Logger()
	t.Cleanup(func() {
		log.Logger = prev
	})
}
