package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/you-not-fish/vpc/internal/codegen"
	"github.com/you-not-fish/vpc/internal/syntax"
)

// Stage names a step of the compile pipeline.
type Stage string

const (
	StageRead    Stage = "read"
	StageLex     Stage = "lex"
	StageParse   Stage = "parse"
	StageCollect Stage = "collect"
	StageCodegen Stage = "codegen"
	StageWrite   Stage = "write"
)

// Error is a compile failure tagged with the stage that produced it.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StageTime records how long one stage ran.
type StageTime struct {
	Stage    Stage
	Duration time.Duration
}

// Trace lists the stages of a compile in execution order.
type Trace []StageTime

// Total returns the summed duration of all stages.
func (t Trace) Total() time.Duration {
	var d time.Duration
	for _, s := range t {
		d += s.Duration
	}
	return d
}

// unit is the state threaded through the stages of one compile.
type unit struct {
	filename string
	src      io.Reader
	cfg      codegen.Config

	file *syntax.File
	vars []string
	asm  bytes.Buffer
}

// stage describes a single pipeline step.
type stage struct {
	name Stage
	fn   func(u *unit) error
}

var pipeline = []stage{
	{StageParse, parseStage},
	{StageCollect, collectStage},
	{StageCodegen, codegenStage},
}

// run executes stages on u in order and stops at the first failure.
func run(u *unit, stages []stage, log *slog.Logger) (Trace, error) {
	var trace Trace
	for _, s := range stages {
		start := time.Now()
		err := s.fn(u)
		d := time.Since(start)
		trace = append(trace, StageTime{Stage: s.name, Duration: d})

		if err != nil {
			st := classify(s.name, err)
			log.Debug("stage failed", "stage", string(st), "file", u.filename, "error", err)
			return trace, &Error{Stage: st, Err: err}
		}
		log.Debug("stage done", "stage", string(s.name), "file", u.filename, "duration", d)
	}
	return trace, nil
}

// classify refines the stage of a parse failure: lexing runs inside the
// parser, and the source reader fails underneath both.
func classify(name Stage, err error) Stage {
	if name != StageParse {
		return name
	}
	var lerr *syntax.LexError
	var perr *syntax.ParseError
	switch {
	case errors.As(err, &lerr):
		return StageLex
	case errors.As(err, &perr):
		return StageParse
	}
	return StageRead
}

func parseStage(u *unit) error {
	f, err := syntax.NewParser(u.filename, u.src).Parse()
	if err != nil {
		return err
	}
	u.file = f
	return nil
}

func collectStage(u *unit) error {
	u.vars = syntax.CollectVariables(u.file.Stmts)
	return nil
}

func codegenStage(u *unit) error {
	return codegen.GenerateProgram(&u.asm, u.file, u.vars, u.cfg)
}
