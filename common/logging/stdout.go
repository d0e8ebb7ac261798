package logging

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mcdexio/perp-position-engine/cache/cacher"
	"github.com/ttacon/chalk"
)

// TimeFormat is the timestamp layout of stdout entries.
const TimeFormat = "2006-01-02 15:04:05.000"

var (
	styleMap = map[level]chalk.Style{
		debugLevel:    chalk.ResetColor.NewStyle(),
		infoLevel:     chalk.Green.NewStyle(),
		noticeLevel:   chalk.Cyan.NewStyle(),
		warnLevel:     chalk.Yellow.NewStyle(),
		errorLevel:    chalk.Red.NewStyle(),
		criticalLevel: chalk.Magenta.NewStyle(),
	}

	timeStyle = chalk.ResetColor.NewStyle().WithTextStyle(chalk.Inverse)
	tagStyle  = chalk.ResetColor.NewStyle().WithBackground(chalk.Blue)

	stdout = cacher.NewConst(func() *stdOutput {
		return newStdOutput(os.Stdout, !isCI())
	})
)

// Stdout returns the shared stdout output.
func Stdout() output {
	return stdout.Get()
}

type stdOutput struct {
	mu        sync.Mutex
	writer    *bufio.Writer
	withColor bool
}

// assertOutputInterface
func _() {
	var _ output = (*stdOutput)(nil)
}

func newStdOutput(w io.Writer, withColor bool) *stdOutput {
	return &stdOutput{writer: bufio.NewWriter(w), withColor: withColor}
}

func (o *stdOutput) output(lv level, labels labelMap, log string) {
	ts := time.Now().Format(TimeFormat)
	sv := fmt.Sprintf("%6s", lv.String())
	tag := fmt.Sprintf("%16s", labels[LabelTag])

	var line string
	if o.withColor {
		if lv <= errorLevel {
			log = fmt.Sprintf("%s: %s", labels.callerInfo(true), log)
		}
		line = fmt.Sprintf("%s %s %s %s",
			timeStyle.Style(ts), styleMap[lv].Style(sv), tagStyle.Style(tag), log)
	} else {
		if lv <= errorLevel {
			log = fmt.Sprintf("%s: %s", labels.callerInfo(false), log)
		}
		line = fmt.Sprintf("%s %s %s %s", ts, sv, tag, removeColor(log))
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = o.writer.WriteString(line)
	_ = o.writer.Flush()
}

func (o *stdOutput) close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	_ = o.writer.Flush()
}
