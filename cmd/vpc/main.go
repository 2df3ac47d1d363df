// Package main implements the vp compiler entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tebeka/atexit"

	"github.com/you-not-fish/vpc/internal/compiler"
	"github.com/you-not-fish/vpc/internal/config"
	"github.com/you-not-fish/vpc/internal/syntax"
	"github.com/you-not-fish/vpc/internal/toolchain"
)

// Compiler flags
var (
	output     = flag.String("o", "", "Output file (default: input with .asm extension)")
	configPath = flag.String("config", "", "YAML configuration file")
	entry      = flag.String("entry", "", "Entry symbol (default _start)")
	noDivGuard = flag.Bool("no-div-guard", false, "Do not check divisors for zero")
	comments   = flag.Bool("comments", false, "Annotate output with source statements")
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST    = flag.Bool("emit-ast", false, "Output AST")
	astFormat  = flag.String("ast-format", "text", "AST output format (text, json or dump)")
	emitVars   = flag.Bool("emit-vars", false, "Output variable slots")
	trace      = flag.Bool("trace", false, "Output timing trace")
	build      = flag.Bool("build", false, "Assemble and link the output with nasm and ld")
	logLevel   = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logJSON    = flag.Bool("log-json", false, "Log as JSON")
	doctor     = flag.Bool("doctor", false, "Check toolchain")
	version    = flag.Bool("version", false, "Print version")
)

// Version information
const Version = "0.1.0"

// Exit codes
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "vp Compiler %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: vpc [options] <file.vp>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("vpc version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		atexit.Exit(exitOK)
	}

	if *doctor {
		atexit.Exit(runDoctor(context.Background(), toolchain.ExecRunner{}))
	}

	cfg, err := loadConfig(*configPath, setFlags(), flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		atexit.Exit(exitUsage)
	}

	if cfg.Input == "" {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: vpc [options] <file.vp>")
		atexit.Exit(exitUsage)
	}

	log := newLogger(os.Stderr, cfg.Log)

	// Handle -emit-tokens
	if *emitTokens {
		atexit.Exit(runEmitTokens(cfg.Input))
	}

	// Handle -emit-ast
	if *emitAST {
		atexit.Exit(runEmitAST(cfg.Input, *astFormat))
	}

	// Handle -emit-vars
	if *emitVars {
		atexit.Exit(runEmitVars(cfg.Input))
	}

	atexit.Exit(runCompile(context.Background(), cfg, log))
}

// setFlags returns the names of the flags given on the command line.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// loadConfig reads the configuration file, if any, and applies the
// command-line flags in set and the input file in args on top of it.
func loadConfig(path string, set map[string]bool, args []string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if set["o"] {
		cfg.Output = *output
	}
	if set["entry"] {
		cfg.Entry = *entry
	}
	if set["no-div-guard"] {
		cfg.DivGuard = !*noDivGuard
	}
	if set["comments"] {
		cfg.Comments = *comments
	}
	if set["log-level"] {
		cfg.Log.Level = *logLevel
	}
	if set["log-json"] {
		cfg.Log.Format = "text"
		if *logJSON {
			cfg.Log.Format = "json"
		}
	}
	if len(args) > 0 {
		cfg.Input = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger. The configuration has already been
// validated, so an unknown level cannot occur here.
func newLogger(w io.Writer, c config.Log) *slog.Logger {
	level, _ := c.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if c.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// runCompile compiles cfg.Input to the configured output and optionally
// builds an executable from it.
func runCompile(ctx context.Context, cfg *config.Config, log *slog.Logger) int {
	out := cfg.OutputPath()
	gen := cfg.Codegen()

	res, err := compiler.CompileFile(ctx, cfg.Input, out, compiler.Options{
		Codegen: &gen,
		Logger:  log,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFail
	}

	if *trace {
		printTrace(os.Stdout, res.Trace)
	}

	if *build {
		exe := executablePath(out)
		atexit.Register(func() {
			os.Remove(toolchain.ObjectPath(exe))
		})
		if err := toolchain.Build(ctx, toolchain.ExecRunner{}, out, exe); err != nil {
			fmt.Fprintf(os.Stderr, "build error: %v\n", err)
			return exitFail
		}
		log.Info("built", "exe", exe)
	}
	return exitOK
}

// executablePath returns where -build links the program assembled from
// asmPath: asmPath without its extension, or with ".out" appended when it
// has none.
func executablePath(asmPath string) string {
	if ext := filepath.Ext(asmPath); ext != "" {
		return strings.TrimSuffix(asmPath, ext)
	}
	return asmPath + ".out"
}

// printTrace writes the per-stage timing table.
func printTrace(w io.Writer, tr compiler.Trace) {
	t := table.NewWriter()
	t.SetTitle("Compile Trace")
	t.AppendHeader(table.Row{"Stage", "Duration"})
	for _, s := range tr {
		t.AppendRow(table.Row{string(s.Stage), s.Duration.String()})
	}
	t.AppendFooter(table.Row{"Total", tr.Total().String()})
	fmt.Fprintln(w, t.Render())
}

// runEmitAST parses the input file and outputs the AST.
func runEmitAST(filename, format string) int {
	switch format {
	case "text", "json", "dump":
	default:
		fmt.Fprintf(os.Stderr, "error: unknown AST format %q\n", format)
		return exitUsage
	}

	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitFail
	}
	defer f.Close()

	ast, err := syntax.NewParser(filename, f).Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFail
	}

	// Output AST
	switch format {
	case "json":
		if err := syntax.FprintJSON(os.Stdout, ast); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return exitFail
		}
	case "dump":
		spew.Fdump(os.Stdout, ast)
	default:
		syntax.Fprint(os.Stdout, ast)
	}
	return exitOK
}

// runEmitVars parses the input file and prints one variable slot per line.
func runEmitVars(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitFail
	}
	defer f.Close()

	ast, err := syntax.NewParser(filename, f).Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFail
	}

	for _, name := range syntax.CollectVariables(ast.Stmts) {
		fmt.Println(name)
	}
	return exitOK
}

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitFail
	}
	defer f.Close()

	s := syntax.NewScanner(filename, f)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Position", "Token", "Literal"})

	code := exitOK
	for {
		s.Next()
		tok := s.Token()
		if tok.IsError() {
			code = exitFail
			break
		}
		t.AppendRow(table.Row{s.Pos().String(), tok.String(), formatLiteral(s.Literal())})
		if tok.IsEOF() {
			break
		}
	}

	fmt.Println(t.Render())
	if code != exitOK {
		fmt.Fprintln(os.Stderr, s.Err())
	}
	return code
}

// formatLiteral formats a literal for display.
func formatLiteral(lit string) string {
	if lit == "" {
		return ""
	}
	return fmt.Sprintf("%q", lit)
}

// runDoctor reports whether the assembler and linker are available.
func runDoctor(ctx context.Context, r toolchain.Runner) int {
	fmt.Println("vp Toolchain Doctor")
	fmt.Println("===================")
	fmt.Println()

	allOk := true
	fmt.Printf("%-6s %s ✓\n", "go:", runtime.Version())

	for _, st := range toolchain.Check(ctx, r) {
		if st.OK() {
			fmt.Printf("%-6s %s ✓\n", st.Name+":", st.Version)
			continue
		}
		allOk = false
		var terr *toolchain.ToolError
		if errors.As(st.Err, &terr) {
			fmt.Printf("%-6s ✗ (%v)\n", st.Name+":", terr.Err)
		} else {
			fmt.Printf("%-6s ✗ (%v)\n", st.Name+":", st.Err)
		}
	}

	fmt.Println()
	if allOk {
		fmt.Println("All required tools available!")
		return exitOK
	}

	fmt.Println("Some required tools are missing.")
	fmt.Println("-build needs nasm and ld on PATH.")
	return exitFail
}
