// Package compiler drives a vp script through parsing, variable collection
// and code generation, and writes the resulting assembly.
package compiler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/you-not-fish/vpc/internal/codegen"
	"github.com/you-not-fish/vpc/internal/syntax"
)

// Options controls a compile.
type Options struct {
	// Codegen configures the generator. Nil means codegen.DefaultConfig().
	Codegen *codegen.Config

	// Logger receives per-stage debug records. Nil means slog.Default().
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) codegen() codegen.Config {
	if o.Codegen != nil {
		return *o.Codegen
	}
	return codegen.DefaultConfig()
}

// Result is the output of a successful compile.
type Result struct {
	File  *syntax.File // parsed program
	Vars  []string     // variables in slot order
	Asm   []byte       // complete NASM document
	Trace Trace
}

// Compile translates the script read from src. filename is used in
// positions only. Any failure is returned as an *Error.
func Compile(filename string, src io.Reader, opts Options) (*Result, error) {
	u := &unit{
		filename: filename,
		src:      src,
		cfg:      opts.codegen(),
	}

	trace, err := run(u, pipeline, opts.logger())
	if err != nil {
		return nil, err
	}
	return &Result{
		File:  u.file,
		Vars:  u.vars,
		Asm:   u.asm.Bytes(),
		Trace: trace,
	}, nil
}

// CompileFile compiles the script at in and writes the assembly to out.
// The output is replaced atomically; when compilation fails out is left as
// it was.
func CompileFile(ctx context.Context, in, out string, opts Options) (*Result, error) {
	log := opts.logger()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := os.ReadFile(in)
	if err != nil {
		return nil, &Error{Stage: StageRead, Err: err}
	}

	res, err := Compile(in, bytes.NewReader(src), opts)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := writeFile(out, res.Asm); err != nil {
		return nil, &Error{Stage: StageWrite, Err: err}
	}

	log.Info("compiled", "in", in, "out", out, "vars", len(res.Vars), "bytes", len(res.Asm), "elapsed", res.Trace.Total())
	return res, nil
}

// writeFile writes data to a temporary file next to path and renames it
// into place.
func writeFile(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
