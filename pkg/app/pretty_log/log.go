package pretty_log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	bold       = "\033[1m"
	brightBlue = "\033[94m"
	orange     = "\033[38;5;208m"
	green      = "\033[32m"
	red        = "\033[31m"
	cyan       = "\033[36m"
	reset      = "\033[0m"
)

var (
	mut    sync.Mutex
	tasks            = make(map[string]string)
	out    io.Writer = os.Stdout
	colors           = true
	prefix string
)

// SetOutput redirects all log lines to w.
func SetOutput(w io.Writer) {
	mut.Lock()
	defer mut.Unlock()
	out = w
}

// SetColor enables or disables ANSI colors.
func SetColor(enabled bool) {
	mut.Lock()
	defer mut.Unlock()
	colors = enabled
}

// SetPrefix sets a label printed after the timestamp of every line,
// so that interleaved output of concurrent workloads stays attributable.
func SetPrefix(label string) {
	mut.Lock()
	defer mut.Unlock()
	prefix = label
}

func printLine(color, text string) {
	mut.Lock()
	defer mut.Unlock()

	now := time.Now().Format("2006/01/02 15:04:05")
	label := ""
	if prefix != "" {
		label = "[" + prefix + "] "
	}
	if !colors || color == "" {
		fmt.Fprintf(out, "[%s] %s%s\n", now, label, text)
		return
	}
	fmt.Fprintf(out, "[%s] %s%s%s%s\n", now, label, color, text, reset)
}

// TaskGroup prints the title of a group of tasks in bright blue color.
func TaskGroup(format string, a ...interface{}) {
	printLine(brightBlue+bold, fmt.Sprintf(format, a...))
}

// BeginTask prints the beginning of a task with its name in orange and returns its id.
func BeginTask(format string, a ...interface{}) string {
	taskName := fmt.Sprintf(format, a...)

	mut.Lock()
	id := uuid.NewString()
	tasks[id] = taskName
	mut.Unlock()

	printLine(orange, taskName+" ...")
	return id
}

// CompleteTask prints the task name of id in green.
func CompleteTask(id string) {
	printLine(green, endTask(id))
}

// FailTask prints the task name of id in red.
func FailTask(id string) {
	printLine(red, endTask(id))
}

func endTask(id string) string {
	mut.Lock()
	defer mut.Unlock()
	name := tasks[id]
	delete(tasks, id)
	return name
}

// TaskResult prints the result of a task in cyan color.
func TaskResult(format string, a ...interface{}) {
	format = strings.TrimSuffix(format, "\n")
	printLine(cyan, fmt.Sprintf(format, a...))
}

// TaskResultBad prints the result of a task in red color.
func TaskResultBad(format string, a ...interface{}) {
	format = strings.TrimSuffix(format, "\n")
	printLine(red, fmt.Sprintf(format, a...))
}

// TaskResultList prints the result that is a string list
func TaskResultList(list []string) {
	for _, item := range list {
		if item == "" {
			continue
		}
		printLine(cyan, "  "+strings.TrimSuffix(item, "\n"))
	}
}
