package errors

import (
	"bytes"
	"testing"

	"github.com/mcdexio/perp-position-engine/common/logging"
	"github.com/stretchr/testify/require"
)

func TestCatchWithLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewLoggerWithWriter("errors", &buf)

	require.NotPanics(t, func() {
		defer CatchWithLogger(l)
		panic("boom")
	})
	require.Contains(t, buf.String(), "boom")
	require.Contains(t, buf.String(), "[Stack Trace]")
}
