package error

import (
	"fmt"
	"os"
	"strings"
)

// RuleError describes why one rule of a rule file was rejected. Kind names
// the offending rule when it could be parsed; FilePath, SourceName, and Row
// locate it. When the file is readable, the message ends with the offending
// line.
type RuleError struct {
	Cause      error
	Kind       string
	FilePath   string
	SourceName string
	Row        int
}

func (e *RuleError) Error() string {
	var b strings.Builder
	switch {
	case e.SourceName != "" && e.Row != 0:
		fmt.Fprintf(&b, "%v:%v: ", e.SourceName, e.Row)
	case e.SourceName != "":
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	case e.Row != 0:
		fmt.Fprintf(&b, "line %v: ", e.Row)
	}
	if e.Kind != "" {
		fmt.Fprintf(&b, "rule %v: ", e.Kind)
	}
	fmt.Fprintf(&b, "%v", e.Cause)

	if line, ok := ruleLine(e.FilePath, e.Row); ok {
		fmt.Fprintf(&b, "\n    %v", line)
	}

	return b.String()
}

func (e *RuleError) Unwrap() error {
	return e.Cause
}

// RuleErrors collects the failures of every line of a rule file so the user
// sees them all at once.
type RuleErrors []*RuleError

func (e RuleErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%v", e[0])
	for _, err := range e[1:] {
		fmt.Fprintf(&b, "\n%v", err)
	}
	return b.String()
}

// ruleLine fetches row (1-based) of the file, for quoting in a message.
func ruleLine(path string, row int) (string, bool) {
	if path == "" || row <= 0 {
		return "", false
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	lines := strings.Split(string(src), "\n")
	if row > len(lines) {
		return "", false
	}
	line := strings.TrimRight(lines[row-1], "\r")
	if line == "" {
		return "", false
	}
	return line, true
}
