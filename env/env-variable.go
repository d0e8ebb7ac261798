package env

import "github.com/mcdexio/perp-position-engine/common/config"

// IsCI returns true if we are in CI mode.
func IsCI() bool {
	ci := config.GetString("CI", "false")
	return ci == "true"
}

// ResetDatabase returns true if the database should be dropped and migrated on start.
func ResetDatabase() bool {
	return config.GetBool("RESET_DATABASE", false)
}

// RecordSnapshots returns true if computed valuations are journaled to the database.
func RecordSnapshots() bool {
	return config.GetBool("RECORD_SNAPSHOTS", false)
}
