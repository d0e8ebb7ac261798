package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	SetString("PPE_TEST_BOOL", "true")
	SetString("PPE_TEST_INT", "0x10")
	SetString("PPE_TEST_MS", "250")

	require.True(t, GetBool("PPE_TEST_BOOL"))
	require.Equal(t, 16, GetInt("PPE_TEST_INT"))
	require.Equal(t, int64(16), GetInt64("PPE_TEST_INT"))
	require.Equal(t, 250*time.Millisecond, GetMillisecond("PPE_TEST_MS"))
	require.Equal(t, "fallback", GetString("PPE_TEST_ABSENT", "fallback"))
	require.Equal(t, 7, GetInt("PPE_TEST_ABSENT", 7))

	// overriding drops the cached parse
	SetString("PPE_TEST_BOOL", "false")
	require.False(t, GetBool("PPE_TEST_BOOL"))

	require.Panics(t, func() { GetString("PPE_TEST_ABSENT") })
	SetString("PPE_TEST_BAD", "yes please")
	require.Panics(t, func() { GetBool("PPE_TEST_BAD") })
}
