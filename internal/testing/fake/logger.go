package fake

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// CheckLog returns a logger and a check function. When called, the function
// verifies that the logger has printed the value, either as the message or as
// the value of a field.
func CheckLog(value string) (zerolog.Logger, func(t *testing.T)) {
	buffer := new(bytes.Buffer)

	check := func(t *testing.T) {
		require.Contains(t, buffer.String(), fmt.Sprintf(`"%s"`, value))
	}

	return zerolog.New(buffer), check
}
