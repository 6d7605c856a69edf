package main

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"minic/pkg/logger"
	"minic/pkg/utils"
)

func newBuildCmd(root *rootOptions) *cobra.Command {
	var (
		writeAST bool
		jobs     int
	)

	cmd := &cobra.Command{
		Use:   "build <source.mc>...",
		Short: "Compile source files into Python modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if root.outDir != "" {
				if err := os.MkdirAll(root.outDir, 0o755); err != nil {
					return err
				}
			}

			// Each file is compiled with its own pipeline state. Diagnostics
			// are buffered per file so lines of different files never
			// interleave.
			var mu sync.Mutex
			stderr := cmd.ErrOrStderr()
			stdout := cmd.OutOrStdout()

			var g errgroup.Group
			if jobs > 0 {
				g.SetLimit(jobs)
			}
			for _, path := range args {
				path := path
				g.Go(func() error {
					var diag bytes.Buffer
					res, err := compileFile(path, &diag)

					mu.Lock()
					defer mu.Unlock()
					if diag.Len() > 0 {
						if _, werr := stderr.Write(diag.Bytes()); werr != nil {
							return fmt.Errorf("%s: writing diagnostics: %w", path, werr)
						}
					}
					if err != nil {
						return err
					}

					pyPath := utils.PythonPath(path, root.outDir)
					if err := os.WriteFile(pyPath, []byte(res.Python), 0o644); err != nil {
						return err
					}
					if writeAST {
						if err := os.WriteFile(utils.ASTPath(path, root.outDir), res.AST, 0o644); err != nil {
							return err
						}
					}
					logger.With("source", path).Info("wrote python module", "path", pyPath)
					if !root.quiet {
						fmt.Fprintf(stdout, "%s -> %s\n", path, pyPath)
					}
					return nil
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().BoolVar(&writeAST, "ast", false, "also write the AST document next to each module")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "number of files compiled in parallel")
	return cmd
}
