package compiler_test

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing/iotest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/you-not-fish/vpc/internal/codegen"
	"github.com/you-not-fish/vpc/internal/compiler"
	"github.com/you-not-fish/vpc/internal/syntax"
)

func stageOf(err error) compiler.Stage {
	var cerr *compiler.Error
	Expect(errors.As(err, &cerr)).To(BeTrue(), "error %v is not a *compiler.Error", err)
	return cerr.Stage
}

var _ = Describe("Compile", func() {
	var opts compiler.Options

	BeforeEach(func() {
		opts = compiler.Options{
			Logger: slog.New(slog.NewTextHandler(GinkgoWriter, nil)),
		}
	})

	It("should compile a program", func() {
		res, err := compiler.Compile("t.vp", strings.NewReader("x = 2 + 3 * 4\nprint(x)"), opts)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Vars).To(Equal([]string{"x"}))
		Expect(res.File.Stmts).To(HaveLen(2))

		asm := string(res.Asm)
		Expect(asm).To(HavePrefix("section .bss\n"))
		Expect(asm).To(ContainSubstring("var_x resq 1"))
		Expect(asm).To(ContainSubstring("imul rax, rbx"))
		Expect(asm).To(ContainSubstring("call int_to_string"))
	})

	It("should trace every stage in order", func() {
		res, err := compiler.Compile("t.vp", strings.NewReader("print(1)"), opts)

		Expect(err).NotTo(HaveOccurred())
		var stages []compiler.Stage
		for _, s := range res.Trace {
			stages = append(stages, s.Stage)
			Expect(s.Duration).To(BeNumerically(">=", 0))
		}
		Expect(stages).To(Equal([]compiler.Stage{
			compiler.StageParse, compiler.StageCollect, compiler.StageCodegen,
		}))
		Expect(res.Trace.Total()).To(BeNumerically(">=", res.Trace[0].Duration))
	})

	It("should compile an empty program", func() {
		res, err := compiler.Compile("t.vp", strings.NewReader(""), opts)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Vars).To(BeEmpty())
		Expect(string(res.Asm)).To(ContainSubstring("_start:\n"))
	})

	It("should honor the codegen configuration", func() {
		cfg := codegen.DefaultConfig()
		cfg.Entry = "main"
		cfg.DivGuard = false
		opts.Codegen = &cfg

		res, err := compiler.Compile("t.vp", strings.NewReader("x = 4 / 2"), opts)

		Expect(err).NotTo(HaveOccurred())
		asm := string(res.Asm)
		Expect(asm).To(ContainSubstring("global main"))
		Expect(asm).NotTo(ContainSubstring("division_by_zero"))
	})

	It("should report lexical errors in the lex stage", func() {
		res, err := compiler.Compile("t.vp", strings.NewReader("x = 5 & 3"), opts)

		Expect(res).To(BeNil())
		Expect(stageOf(err)).To(Equal(compiler.StageLex))
		Expect(err.Error()).To(Equal("lex error: t.vp:1:7: unexpected character '&'"))

		var lerr *syntax.LexError
		Expect(errors.As(err, &lerr)).To(BeTrue())
		Expect(lerr.Char).To(Equal('&'))
	})

	It("should report malformed numbers in the lex stage", func() {
		_, err := compiler.Compile("t.vp", strings.NewReader("x = 1.2.3"), opts)

		Expect(stageOf(err)).To(Equal(compiler.StageLex))
		Expect(err.Error()).To(ContainSubstring("malformed number"))
	})

	It("should report syntax errors in the parse stage", func() {
		_, err := compiler.Compile("t.vp", strings.NewReader("x = "), opts)

		Expect(stageOf(err)).To(Equal(compiler.StageParse))
		Expect(err.Error()).To(Equal("parse error: t.vp:1:5: unexpected EOF, expected number or identifier"))

		var perr *syntax.ParseError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Kind).To(Equal(syntax.UnexpectedToken))
	})

	It("should report undefined variables in the codegen stage", func() {
		_, err := compiler.Compile("t.vp", strings.NewReader("print(y)"), opts)

		Expect(stageOf(err)).To(Equal(compiler.StageCodegen))
		var uerr *codegen.UndefinedVariableError
		Expect(errors.As(err, &uerr)).To(BeTrue())
		Expect(uerr.Name).To(Equal("y"))
	})

	It("should report reader failures in the read stage", func() {
		boom := errors.New("boom")
		_, err := compiler.Compile("t.vp", iotest.ErrReader(boom), opts)

		Expect(stageOf(err)).To(Equal(compiler.StageRead))
		Expect(errors.Is(err, boom)).To(BeTrue())
	})

	It("should log each stage at debug level", func() {
		var buf bytes.Buffer
		opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		_, err := compiler.Compile("t.vp", strings.NewReader("x = 1"), opts)

		Expect(err).NotTo(HaveOccurred())
		for _, s := range []string{"stage=parse", "stage=collect", "stage=codegen"} {
			Expect(buf.String()).To(ContainSubstring(s))
		}
	})
})

var _ = Describe("CompileFile", func() {
	var (
		dir  string
		opts compiler.Options
		ctx  context.Context
	)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		opts = compiler.Options{
			Logger: slog.New(slog.NewTextHandler(GinkgoWriter, nil)),
		}
		ctx = context.Background()
	})

	It("should write the assembly", func() {
		in := write("prog.vp", "x = 1\nprint(x)")
		out := filepath.Join(dir, "prog.asm")

		res, err := compiler.CompileFile(ctx, in, out, opts)

		Expect(err).NotTo(HaveOccurred())
		data, err := os.ReadFile(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal(res.Asm))
	})

	It("should leave no temporary files behind", func() {
		in := write("prog.vp", "print(1)")
		out := filepath.Join(dir, "prog.asm")

		_, err := compiler.CompileFile(ctx, in, out, opts)
		Expect(err).NotTo(HaveOccurred())

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		Expect(names).To(ConsistOf("prog.vp", "prog.asm"))
	})

	It("should not create output when compilation fails", func() {
		in := write("bad.vp", "x = 5 & 3")
		out := filepath.Join(dir, "bad.asm")

		_, err := compiler.CompileFile(ctx, in, out, opts)

		Expect(stageOf(err)).To(Equal(compiler.StageLex))
		_, statErr := os.Stat(out)
		Expect(errors.Is(statErr, fs.ErrNotExist)).To(BeTrue())
	})

	It("should keep an existing output when compilation fails", func() {
		in := write("bad.vp", "print(")
		out := write("bad.asm", "previous")

		_, err := compiler.CompileFile(ctx, in, out, opts)

		Expect(err).To(HaveOccurred())
		data, err := os.ReadFile(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("previous"))
	})

	It("should report a missing input in the read stage", func() {
		_, err := compiler.CompileFile(ctx, filepath.Join(dir, "missing.vp"), filepath.Join(dir, "out.asm"), opts)

		Expect(stageOf(err)).To(Equal(compiler.StageRead))
		Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())
	})

	It("should report an unwritable output in the write stage", func() {
		in := write("prog.vp", "print(1)")
		out := filepath.Join(dir, "no", "such", "dir", "prog.asm")

		_, err := compiler.CompileFile(ctx, in, out, opts)

		Expect(stageOf(err)).To(Equal(compiler.StageWrite))
	})

	It("should stop when the context is canceled", func() {
		in := write("prog.vp", "print(1)")
		out := filepath.Join(dir, "prog.asm")
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := compiler.CompileFile(canceled, in, out, opts)

		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		_, statErr := os.Stat(out)
		Expect(errors.Is(statErr, fs.ErrNotExist)).To(BeTrue())
	})
})
