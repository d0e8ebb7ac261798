package logging

import (
	"cloud.google.com/go/logging"
	"github.com/mcdexio/perp-position-engine/common/config"
)

// level of logger
type level int

// Log / Severity Levels
const (
	firstLevel level = iota
	criticalLevel
	errorLevel
	warnLevel
	noticeLevel
	infoLevel
	debugLevel
	lastLevel
)

var levelNames = [...]string{"", " CRIT", "ERROR", " WARN", " NOTE", " INFO", "DEBUG", ""}

var levelSeverities = [...]logging.Severity{
	logging.Default,
	logging.Critical,
	logging.Error,
	logging.Warning,
	logging.Notice,
	logging.Info,
	logging.Debug,
	logging.Default,
}

// defaultThresholdLevel reads SERVER_LOGLEVEL, defaulting to debug.
func defaultThresholdLevel() level {
	return level(config.GetInt64("SERVER_LOGLEVEL", int64(debugLevel)))
}

// IsValid returns if the l is valid.
func (l level) IsValid() bool {
	return l < lastLevel && l > firstLevel
}

// String returns the padded name of l.
func (l level) String() string {
	if l < firstLevel || l > lastLevel {
		return ""
	}
	return levelNames[l]
}

// Severity maps l onto the cloud logging severity.
func (l level) Severity() logging.Severity {
	if l < firstLevel || l > lastLevel {
		return logging.Default
	}
	return levelSeverities[l]
}
