package config_test

import (
	"log/slog"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/you-not-fish/vpc/internal/codegen"
	"github.com/you-not-fish/vpc/internal/config"
)

var _ = Describe("Config", func() {
	It("should default to a guarded _start program", func() {
		cfg := config.Default()

		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Codegen()).To(Equal(codegen.DefaultConfig()))
		Expect(cfg.Log.Level).To(Equal("info"))
		Expect(cfg.Log.Format).To(Equal("text"))
	})

	It("should keep defaults for keys the file omits", func() {
		cfg, err := config.Parse([]byte("comments: true\nlog:\n  level: debug\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Comments).To(BeTrue())
		Expect(cfg.DivGuard).To(BeTrue())
		Expect(cfg.Entry).To(Equal("_start"))
		Expect(cfg.Log.Level).To(Equal("debug"))
		Expect(cfg.Log.Format).To(Equal("text"))
	})

	It("should accept an empty document", func() {
		cfg, err := config.Parse(nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.Default()))
	})

	It("should decode every key", func() {
		doc := `
input: prog.vp
output: build/prog.asm
entry: main
div_guard: false
comments: true
log:
  level: warn
  format: json
`
		cfg, err := config.Parse([]byte(doc))

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(&config.Config{
			Input:    "prog.vp",
			Output:   "build/prog.asm",
			Entry:    "main",
			DivGuard: false,
			Comments: true,
			Log:      config.Log{Level: "warn", Format: "json"},
		}))
		Expect(cfg.Codegen()).To(Equal(codegen.Config{Entry: "main", Comments: true}))
	})

	It("should reject unknown keys", func() {
		_, err := config.Parse([]byte("entry: main\nguard: false\n"))

		Expect(err).To(MatchError(ContainSubstring("guard")))
	})

	It("should reject malformed YAML", func() {
		_, err := config.Parse([]byte("entry: [main"))

		Expect(err).To(HaveOccurred())
	})

	DescribeTable("entry validation",
		func(entry string, valid bool) {
			cfg := config.Default()
			cfg.Entry = entry
			if valid {
				Expect(cfg.Validate()).To(Succeed())
			} else {
				Expect(cfg.Validate()).To(MatchError(HavePrefix("entry:")))
			}
		},
		Entry("default", "_start", true),
		Entry("plain", "main", true),
		Entry("with digits", "start2", true),
		Entry("empty", "", false),
		Entry("leading digit", "1start", false),
		Entry("local label", ".start", false),
		Entry("space", "my start", false),
		Entry("slot prefix", "var_main", false),
		Entry("runtime symbol", "int_to_string", false),
		Entry("branch label", "else3", false),
		Entry("register", "rax", false),
		Entry("upper-case register", "RBX", false),
		Entry("extended register", "r12", false),
		Entry("mnemonic", "mov", false),
		Entry("syscall", "syscall", false),
	)

	DescribeTable("log level",
		func(level string, want slog.Level, valid bool) {
			l := config.Log{Level: level, Format: "text"}
			got, err := l.SlogLevel()
			if !valid {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("debug", "debug", slog.LevelDebug, true),
		Entry("info", "info", slog.LevelInfo, true),
		Entry("warn", "warn", slog.LevelWarn, true),
		Entry("error", "error", slog.LevelError, true),
		Entry("upper case", "DEBUG", slog.LevelDebug, true),
		Entry("unknown", "verbose", slog.Level(0), false),
		Entry("empty", "", slog.Level(0), false),
	)

	It("should reject an unknown log format", func() {
		_, err := config.Parse([]byte("log:\n  format: xml\n"))

		Expect(err).To(MatchError(ContainSubstring("log.format")))
	})

	It("should refuse to overwrite the input", func() {
		_, err := config.Parse([]byte("input: prog.vp\noutput: ./prog.vp\n"))

		Expect(err).To(MatchError(ContainSubstring("overwrite")))
	})

	It("should refuse a derived output equal to the input", func() {
		cfg := config.Default()
		cfg.Input = "a.asm"

		Expect(cfg.Validate()).To(MatchError(`output: "a.asm" would overwrite the input`))
	})

	DescribeTable("output path",
		func(input, output, want string) {
			cfg := config.Default()
			cfg.Input, cfg.Output = input, output
			Expect(cfg.OutputPath()).To(Equal(want))
		},
		Entry("derived", "prog.vp", "", "prog.asm"),
		Entry("derived in directory", "src/prog.vp", "", "src/prog.asm"),
		Entry("no extension", "prog", "", "prog.asm"),
		Entry("explicit", "prog.vp", "out.s", "out.s"),
	)

	Describe("Load", func() {
		It("should load a file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "vpc.yaml")
			Expect(os.WriteFile(path, []byte("entry: main\n"), 0o644)).To(Succeed())

			cfg, err := config.Load(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Entry).To(Equal("main"))
		})

		It("should name the file in errors", func() {
			path := filepath.Join(GinkgoT().TempDir(), "vpc.yaml")
			Expect(os.WriteFile(path, []byte("entry: var_x\n"), 0o644)).To(Succeed())

			_, err := config.Load(path)

			Expect(err).To(MatchError(ContainSubstring(path)))
		})

		It("should fail on a missing file", func() {
			_, err := config.Load(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))

			Expect(err).To(HaveOccurred())
		})
	})
})
