package dela

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLevelFromEnv(t *testing.T) {
	require.Equal(t, zerolog.InfoLevel, levelFromEnv(""))
	require.Equal(t, zerolog.InfoLevel, levelFromEnv("not a level"))
	require.Equal(t, zerolog.TraceLevel, levelFromEnv("trace"))
	require.Equal(t, zerolog.WarnLevel, levelFromEnv("warn"))
	require.Equal(t, zerolog.Disabled, levelFromEnv("disabled"))
}
