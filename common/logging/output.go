package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/mcdexio/perp-position-engine/cache/cacher"
)

// output defines the log output interface.
type output interface {
	output(lv level, labels labelMap, log string)
}

var defaultOut = cacher.NewConst(func() output {
	o := multiOutput{}
	if logToStdout {
		o = append(o, Stdout())
	}
	if logToStackdriver {
		o = append(o, Stackdriver())
	}
	if len(o) == 0 {
		fmt.Fprintln(os.Stderr, "no default log output specified")
	}
	return o
})

func defaultOutput() output {
	return defaultOut.Get()
}

// multiOutput fans an entry out to every output in order.
type multiOutput []output

func (o multiOutput) output(lv level, labels labelMap, log string) {
	for _, sub := range o {
		sub.output(lv, labels, log)
	}
}

// removeColor returns s with ANSI colour sequences stripped.
func removeColor(s string) string {
	sb := strings.Builder{}
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' {
			for ; i < len(s) && s[i] != 'm'; i++ {
			}
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
