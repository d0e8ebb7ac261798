package logging

import "github.com/mcdexio/perp-position-engine/common/config"

// Variables only used in logging package.
var (
	logToStdout      = config.GetBool("SERVER_LOG_TO_STDOUT", true)
	logToStackdriver = config.GetBool("SERVER_LOG_TO_STACKDRIVER", false)

	hostName = config.GetString("HOSTNAME", "localhost")
	logName  string
)

// isCI mirrors env.IsCI; env imports config so logging cannot import env.
func isCI() bool {
	return config.GetString("CI", "false") == "true"
}

// Initialize names the log stream of this process.
func Initialize(logname string) {
	logName = logname
	hostName = config.GetString("HOSTNAME", "localhost")
	if logToStackdriver {
		stackdriverOut.Get().refreshLogger(logName)
	}
}

// Finalize flushes and closes every loaded output.
func Finalize() {
	if stdout.IsLoaded() {
		stdout.Get().close()
		stdout.Clear()
	}
	if stackdriverOut.IsLoaded() {
		if err := stackdriverOut.Get().client.Close(); err != nil {
			panic(err)
		}
		stackdriverOut.Clear()
	}
}
