package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/casebreak/casebreak/pkg/enum"
	"github.com/spf13/cobra"
)

var (
	checkConfigPath    string
	checkMaxFileSize   int64
	checkIncludeHidden bool
	checkExtensions    string
	checkNoPrefilter   bool
)

var checkCmd = &cobra.Command{
	Use:   "check <target>",
	Short: "Check whether a rewrite is needed (CI mode)",
	Long:  "Run the transform without writing anything; exit non-zero if any file would change or fails",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkConfigPath, "config", "", "Path to YAML config file")
	checkCmd.Flags().Int64Var(&checkMaxFileSize, "max-file-size", 10*1024*1024, "Maximum file size to process (bytes)")
	checkCmd.Flags().BoolVar(&checkIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	checkCmd.Flags().StringVar(&checkExtensions, "extensions", "", "Comma-separated extension list overriding the default C/C++ set")
	checkCmd.Flags().BoolVar(&checkNoPrefilter, "no-prefilter", false, "Disable the directive-keyword fast path")
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	fi, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("target does not exist: %s", target)
	}

	cfg, err := loadConfig(checkConfigPath, checkMaxFileSize, checkIncludeHidden, checkExtensions)
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg, !checkNoPrefilter)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	var needRewrite, failed int

	checkOne := func(path string, content []byte) error {
		res, err := engine.TransformBytes(content)

		mu.Lock()
		defer mu.Unlock()

		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			return nil
		}
		printDiagnostics(cmd, path, res.Diagnostics)
		if res.Changed {
			needRewrite++
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, describeResult(res))
			}
		}
		return nil
	}

	if fi.IsDir() {
		enumerator := enum.NewFilesystemEnumerator(enum.Config{
			Root:          target,
			Extensions:    cfg.Extensions,
			IncludeHidden: cfg.IncludeHidden,
			MaxFileSize:   cfg.MaxFileSize,
		})
		if err := enumerator.Enumerate(context.Background(), checkOne); err != nil {
			return err
		}
	} else {
		content, err := os.ReadFile(target)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		if err := checkOne(target, content); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	if needRewrite > 0 {
		return fmt.Errorf("%d file(s) need rewriting", needRewrite)
	}
	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "clean")
	}
	return nil
}
