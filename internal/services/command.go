package services

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// expandCommand substitutes {name} placeholders in every argument.
func expandCommand(argv []string, vars map[string]string) []string {
	pairs := make([]string, 0, 2*len(vars))
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	r := strings.NewReplacer(pairs...)
	out := make([]string, len(argv))
	for i, arg := range argv {
		out[i] = r.Replace(arg)
	}
	return out
}

// runCommand runs argv and reports failures as *ExternalToolError carrying
// the tool's combined output.
func runCommand(ctx context.Context, tool string, argv []string) error {
	if len(argv) == 0 {
		return &ExternalToolError{Tool: tool, Err: errors.New("no command configured")}
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return &ExternalToolError{Tool: tool, Output: out.String(), Err: err}
	}
	return nil
}
