// Package launcher starts applications from desktop entry Exec lines.
package launcher

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

// ErrEmptyExec is returned when an Exec line has no program.
var ErrEmptyExec = errors.New("launcher: empty exec line")

// Command strips desktop entry field codes from execLine and splits it into argv.
// Launching without files or URLs, so every field code expands to nothing.
func Command(execLine string) ([]string, error) {
	var b strings.Builder
	for i := 0; i < len(execLine); i++ {
		c := execLine[i]
		if c != '%' || i+1 == len(execLine) {
			b.WriteByte(c)
			continue
		}
		i++
		if execLine[i] == '%' {
			b.WriteByte('%')
		}
	}

	args, err := shlex.Split(b.String())
	if err != nil {
		return nil, fmt.Errorf("split exec %q: %w", execLine, err)
	}
	if len(args) == 0 {
		return nil, ErrEmptyExec
	}
	return args, nil
}

// Launch starts the program and returns without waiting for it.
func Launch(execLine string) error {
	args, err := Command(execLine)
	if err != nil {
		return err
	}

	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", args[0], err)
	}
	return cmd.Process.Release()
}
