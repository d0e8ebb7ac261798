package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LoggerSuite struct {
	suite.Suite
}

func (s *LoggerSuite) TestWritesTaggedLines() {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("valuer", &buf)
	l.Info("leverage=%d", 100000)
	l.Error("bad %s", "input")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	s.Require().Len(lines, 2)
	s.Contains(lines[0], " INFO")
	s.Contains(lines[0], "valuer")
	s.Contains(lines[0], "leverage=100000")
	s.Contains(lines[1], "ERROR")
	s.Contains(lines[1], "logging_test.go")
	s.NotContains(buf.String(), "\033")
}

func (s *LoggerSuite) TestCloneOwnsLabels() {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("a", &buf)
	c := l.CloneLogger()
	c.SetLabel(LabelTag, "b")
	l.Warn("from a")
	c.Warn("from b")
	out := buf.String()
	s.Contains(out, " a from a")
	s.Contains(out, " b from b")
}

func (s *LoggerSuite) TestLevels() {
	s.True(infoLevel.IsValid())
	s.False(lastLevel.IsValid())
	s.Equal("DEBUG", debugLevel.String())
	s.Equal("", level(42).String())
}

func (s *LoggerSuite) TestRemoveColor() {
	s.Equal("abc", removeColor("\x1b[31mabc\x1b[0m"))
}

func TestLogger(t *testing.T) {
	suite.Run(t, new(LoggerSuite))
}
