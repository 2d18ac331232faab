package producer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kweiss/deskpilot/pkg/models"
)

var (
	titlePattern = regexp.MustCompile(`(?i)(?:about|on)\s+(.+)$`)
	countPattern = regexp.MustCompile(`(\d+)`)
)

// taskTitle picks the artifact title: explicit context title, then a phrase
// after "about"/"on" in the task text, then the fallback.
func taskTitle(task models.Task, fallback string) string {
	if t := task.ContextString("title"); t != "" {
		return t
	}
	if m := titlePattern.FindStringSubmatch(task.Description); m != nil {
		return strings.TrimSuffix(strings.TrimSpace(m[1]), ".")
	}
	return fallback
}

// taskCount returns the first integer in the task text, or fallback.
func taskCount(task models.Task, fallback int) int {
	m := countPattern.FindStringSubmatch(task.Description)
	if m == nil {
		return fallback
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
