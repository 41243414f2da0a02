package cache

import "github.com/rs/zerolog"

// ZerologLogger adapts a zerolog.Logger to the cache Logger interface.
type ZerologLogger struct {
	Logger zerolog.Logger
}

// Error logs msg at error level with err attached.
func (z ZerologLogger) Error(msg string, err error) {
	z.Logger.Error().Err(err).Msg(msg)
}
