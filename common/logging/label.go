package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ttacon/chalk"
)

// labelMap are log labels.
type labelMap map[string]string

// LabelTag is the label carrying the logger tag.
const LabelTag = "tag"

const (
	labelProcessID = "pid"
	labelFuncName  = "func_name"
	labelFileName  = "file_name"
	labelLine      = "line_number"
)

var (
	funcNameStyle = chalk.Cyan.NewStyle()
	fileStyle     = chalk.Magenta.NewStyle()
	lineStyle     = chalk.Yellow.NewStyle()
)

func (l labelMap) clone() labelMap {
	m := make(labelMap, len(l)+4)
	for k, v := range l {
		m[k] = v
	}
	return m
}

// addCallerInfo records the caller skip frames above it.
func (l labelMap) addCallerInfo(skip int) {
	l[labelProcessID] = fmt.Sprintf("%d", os.Getpid())
	funcName, file, line := "???", "???", -1
	if pc, f, n, ok := runtime.Caller(skip); ok {
		funcName = runtime.FuncForPC(pc).Name()
		file, line = filepath.Base(f), n
	}
	l[labelFuncName] = funcName + "()"
	l[labelFileName] = file
	l[labelLine] = fmt.Sprintf("%d", line)
}

func (l labelMap) callerInfo(styled bool) string {
	if !styled {
		return fmt.Sprintf("PID_%s:%s:%s:%s",
			l[labelProcessID], l[labelFuncName], l[labelFileName], l[labelLine])
	}
	return fmt.Sprintf("PID_%s:%s:%s:%s",
		l[labelProcessID],
		funcNameStyle.Style(l[labelFuncName]),
		fileStyle.Style(l[labelFileName]),
		lineStyle.Style(l[labelLine]),
	)
}
