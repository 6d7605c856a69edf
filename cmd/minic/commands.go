package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"minic/pkg/compiler"
	"minic/pkg/logger"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <source.mc>...",
		Short: "Report lexical, syntax and semantic errors without writing output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed error
			for _, path := range args {
				if _, err := compileFile(path, cmd.ErrOrStderr()); err != nil {
					if failed == nil {
						failed = err
					}
					continue
				}
				if !root.quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
				}
			}
			return failed
		},
	}
}

func newASTCmd(root *rootOptions) *cobra.Command {
	var decode bool

	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Print the AST document of a source file",
		Long: `Print the AST document of a source file.

With --decode the argument is an AST document instead, and the Python
module generated from it is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !decode {
				res, err := compileFile(path, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(append(res.AST, '\n'))
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			prog, err := compiler.UnmarshalAST(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if errs := compiler.Analyze(prog); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(cmd.ErrOrStderr(), e)
				}
				return fmt.Errorf("%s: %w", path, errCompileFailed)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), compiler.Generate(prog))
			return err
		},
	}

	cmd.Flags().BoolVar(&decode, "decode", false, "read an AST document and print the generated Python")
	return cmd
}

func newRunCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <source.mc>",
		Short: "Interpret a source file without generating Python",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			res, err := compileFile(path, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			result, err := compiler.Evaluate(res.Program, cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			logger.With("source", path).Debug("main returned", "result", result.String())
			return nil
		},
	}
}

func newTokensCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <source.mc>",
		Short: "Print the token stream of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			lx := compiler.NewLexer(string(src))
			for {
				tok := lx.Next()
				fmt.Fprintln(out, tok)
				if tok.Type == compiler.EOF {
					break
				}
			}
			for _, e := range lx.Errors() {
				fmt.Fprintln(cmd.ErrOrStderr(), e)
			}
			return nil
		},
	}
}
