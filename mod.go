// Package dela defines the global tools shared by the components of a pool
// node: the logger and the list of Prometheus collectors.
//
// The log level is read from the LLVL environment variable. Accepted values
// are the zerolog levels (trace, debug, info, warn, error, fatal, panic,
// disabled). An empty or unknown value defaults to info.
package dela

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// EnvLogLevel is the name of the environment variable to change the logging
// level.
const EnvLogLevel = "LLVL"

const defaultLevel = zerolog.InfoLevel

var logout = zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC3339,
}

// Logger is a globally available logger instance.
var Logger = zerolog.New(logout).
	Level(levelFromEnv(os.Getenv(EnvLogLevel))).
	With().Timestamp().Logger().
	With().Caller().Logger()

// PromCollectors exposes Prometheus collectors created in the packages. A
// controller can register them to serve the metrics.
var PromCollectors []prometheus.Collector

func levelFromEnv(value string) zerolog.Level {
	if value == "" {
		return defaultLevel
	}

	lvl, err := zerolog.ParseLevel(value)
	if err != nil || lvl == zerolog.NoLevel {
		return defaultLevel
	}

	return lvl
}
