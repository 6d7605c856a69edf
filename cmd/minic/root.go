package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"minic/pkg/compiler"
	"minic/pkg/logger"
	"minic/pkg/utils"
)

// errCompileFailed marks a source whose diagnostics were already printed.
var errCompileFailed = errors.New("compilation failed")

type rootOptions struct {
	outDir    string
	logLevel  string
	logFormat string
	logFile   string
	quiet     bool

	logCloser io.Closer
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "minic",
		Short: "Translate a small C-like language into Python",
		Long: `minic compiles programs written in a tiny C subset (int, void, if/else,
while, return, print) into Python 3 modules.

Commands:
  build   Compile source files into .py modules
  check   Report lexical, syntax and semantic errors only
  ast     Print the AST document of a source file, or regenerate Python from one
  run     Interpret a source file directly
  tokens  Print the token stream of a source file
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logger.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			cfg := logger.DefaultConfig()
			cfg.Level = level
			cfg.Output = cmd.ErrOrStderr()
			cfg.LogFile = opts.logFile
			if opts.logFormat != "" {
				cfg.Format = opts.logFormat
			}
			closer, err := logger.Init(cfg)
			if err != nil {
				return err
			}
			opts.logCloser = closer
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logCloser != nil {
				return opts.logCloser.Close()
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.outDir, "out", "o", "", "output directory for build artifacts (default: next to each source)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")
	flags.StringVar(&opts.logFile, "log-file", "", "append logs to this file instead of stderr")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only print diagnostics")

	rootCmd.AddCommand(
		newBuildCmd(opts),
		newCheckCmd(opts),
		newASTCmd(opts),
		newRunCmd(opts),
		newTokensCmd(opts),
	)
	return rootCmd
}

// compileFile reads and compiles one source file, writing diagnostics to
// diag. A failed compilation is reported as errCompileFailed.
func compileFile(path string, diag io.Writer) (*compiler.Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fullPath, _, err := utils.GetPathInfo(path)
	if err != nil {
		return nil, err
	}
	res, err := compiler.Compile(string(src), compiler.Options{Diagnostics: diag, Name: fullPath})
	if err != nil {
		var syntaxErr *compiler.SyntaxError
		var compileErr *compiler.CompileError
		if errors.As(err, &syntaxErr) || errors.As(err, &compileErr) {
			return nil, fmt.Errorf("%s: %w", path, errCompileFailed)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}
