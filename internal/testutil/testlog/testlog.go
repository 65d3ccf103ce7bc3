package testlog

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Start routes global log output through the test runner and quiets it to
// warnings so handler noise does not drown assertion failures.
func Start(t *testing.T) {
	t.Helper()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	log.Logger.Info().Str("test", t.Name()).Msg("test logging configured")
}
