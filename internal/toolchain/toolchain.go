// Package toolchain assembles and links generated programs with nasm and ld.
package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Tool names looked up on PATH.
const (
	Assembler = "nasm"
	Linker    = "ld"
)

// Command is one external program invocation.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner runs external commands and returns their combined output.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	// Dir is the working directory; empty means the current one.
	Dir string
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = r.Dir
	return c.CombinedOutput()
}

// ToolError reports a failed tool invocation together with its output.
type ToolError struct {
	Cmd    Command
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	}
	return fmt.Sprintf("%s: %v\n%s", e.Cmd, e.Err, e.Output)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

func run(ctx context.Context, r Runner, cmd Command) ([]byte, error) {
	out, err := r.Run(ctx, cmd)
	if err != nil {
		return out, &ToolError{Cmd: cmd, Output: strings.TrimSpace(string(out)), Err: err}
	}
	return out, nil
}

// ObjectPath returns the intermediate object file used for exePath.
func ObjectPath(exePath string) string {
	return exePath + ".o"
}

// Build assembles asmPath as a 64-bit ELF object and links it into a
// static executable at exePath. The object file is removed afterwards.
func Build(ctx context.Context, r Runner, asmPath, exePath string) error {
	obj := ObjectPath(exePath)
	defer os.Remove(obj)

	if _, err := run(ctx, r, Command{Name: Assembler, Args: []string{"-f", "elf64", "-o", obj, asmPath}}); err != nil {
		return fmt.Errorf("assemble: %w", err)
	}
	if _, err := run(ctx, r, Command{Name: Linker, Args: []string{"-o", exePath, obj}}); err != nil {
		return fmt.Errorf("link: %w", err)
	}
	return nil
}

// ToolStatus is the result of probing one tool.
type ToolStatus struct {
	Name    string
	Version string // first line of the version output
	Err     error
}

// OK reports whether the tool is usable.
func (s ToolStatus) OK() bool {
	return s.Err == nil
}

// Check probes the assembler and the linker.
func Check(ctx context.Context, r Runner) []ToolStatus {
	probes := []Command{
		{Name: Assembler, Args: []string{"-v"}},
		{Name: Linker, Args: []string{"--version"}},
	}

	var statuses []ToolStatus
	for _, cmd := range probes {
		st := ToolStatus{Name: cmd.Name}
		out, err := run(ctx, r, cmd)
		if err != nil {
			st.Err = err
		} else {
			st.Version = firstLine(out)
		}
		statuses = append(statuses, st)
	}
	return statuses
}

func firstLine(b []byte) string {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	return strings.TrimSpace(string(b))
}
