package logging

import (
	"context"

	"cloud.google.com/go/logging"
	"github.com/mcdexio/perp-position-engine/cache/cacher"
	"github.com/mcdexio/perp-position-engine/common/config"
)

var stackdriverOut = cacher.NewConst(func() *stackdriverOutput {
	o, err := newStackdriverOutput(logName)
	if err != nil {
		panic(err)
	}
	return o
})

// Stackdriver returns the Google Cloud Logging output.
func Stackdriver() output {
	return stackdriverOut.Get()
}

type stackdriverOutput struct {
	client *logging.Client
	logger *logging.Logger
}

// assertOutputInterface
func _() {
	var _ output = (*stackdriverOutput)(nil)
}

func newStackdriverOutput(logname string) (*stackdriverOutput, error) {
	ctx := context.Background()
	client, err := logging.NewClient(ctx, config.GetString("SERVER_PROJECT_ID"))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx); err != nil {
		return nil, err
	}
	o := &stackdriverOutput{client: client}
	o.refreshLogger(logname)
	return o, nil
}

func (o *stackdriverOutput) refreshLogger(logname string) {
	if o.logger != nil || logname == "" {
		return
	}
	o.logger = o.client.Logger(logname)
}

func (o *stackdriverOutput) output(lv level, labels labelMap, log string) {
	if o.logger == nil {
		return
	}
	o.logger.Log(logging.Entry{
		Severity: lv.Severity(),
		Labels:   labels,
		Payload:  removeColor(log),
	})
}
