package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/casebreak/casebreak"
	"github.com/casebreak/casebreak/pkg/config"
	"github.com/casebreak/casebreak/pkg/enum"
	"github.com/casebreak/casebreak/pkg/store"
	"github.com/spf13/cobra"
)

var (
	rewriteConfigPath    string
	rewriteInPlace       bool
	rewriteOutputPath    string
	rewriteSuffix        string
	rewriteDatastore     string
	rewriteDryRun        bool
	rewriteMaxFileSize   int64
	rewriteIncludeHidden bool
	rewriteExtensions    string
	rewriteNoPrefilter   bool
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite <target>",
	Short: "Rewrite a file or directory",
	Long:  "Transform C++ sources governed by fall_through directives, removing directives and injecting implicit breaks",
	Args:  cobra.ExactArgs(1),
	RunE:  runRewrite,
}

func init() {
	rewriteCmd.Flags().StringVar(&rewriteConfigPath, "config", "", "Path to YAML config file")
	rewriteCmd.Flags().BoolVarP(&rewriteInPlace, "in-place", "i", false, "Write transformed output back to the input files")
	rewriteCmd.Flags().StringVarP(&rewriteOutputPath, "output", "o", "", "Output path for a single-file target ('-' for stdout)")
	rewriteCmd.Flags().StringVar(&rewriteSuffix, "suffix", "", "Write output alongside inputs with this suffix (e.g. '.out')")
	rewriteCmd.Flags().StringVar(&rewriteDatastore, "datastore", "", "Record per-file results in this SQLite datastore")
	rewriteCmd.Flags().BoolVar(&rewriteDryRun, "dry-run", false, "Transform without writing anything")
	rewriteCmd.Flags().Int64Var(&rewriteMaxFileSize, "max-file-size", 10*1024*1024, "Maximum file size to process (bytes)")
	rewriteCmd.Flags().BoolVar(&rewriteIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	rewriteCmd.Flags().StringVar(&rewriteExtensions, "extensions", "", "Comma-separated extension list overriding the default C/C++ set")
	rewriteCmd.Flags().BoolVar(&rewriteNoPrefilter, "no-prefilter", false, "Disable the directive-keyword fast path")
}

// loadConfig resolves the YAML config file plus flag overrides.
func loadConfig(path string, maxFileSize int64, includeHidden bool, extensions string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.NewLoader().LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if maxFileSize > 0 {
		cfg.MaxFileSize = maxFileSize
	}
	if includeHidden {
		cfg.IncludeHidden = true
	}
	if extensions != "" {
		cfg.Extensions = nil
		for _, e := range strings.Split(extensions, ",") {
			e = strings.TrimSpace(e)
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			cfg.Extensions = append(cfg.Extensions, e)
		}
	}
	return cfg, nil
}

// newEngine builds the engine from config.
func newEngine(cfg *config.Config, usePrefilter bool) (*casebreak.Engine, error) {
	opts := []casebreak.Option{casebreak.FromConfig(cfg)}
	if usePrefilter {
		opts = append(opts, casebreak.WithPrefilter())
	}
	engine, err := casebreak.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	return engine, nil
}

// openDatastore opens the results store when requested, nil otherwise.
func openDatastore(path string) (store.Store, error) {
	if path == "" {
		return nil, nil
	}
	s, err := store.New(store.Config{Path: path})
	if err != nil {
		return nil, fmt.Errorf("creating datastore: %w", err)
	}
	return s, nil
}

func runRewrite(cmd *cobra.Command, args []string) error {
	target := args[0]

	fi, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("target does not exist: %s", target)
	}

	cfg, err := loadConfig(rewriteConfigPath, rewriteMaxFileSize, rewriteIncludeHidden, rewriteExtensions)
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg, !rewriteNoPrefilter)
	if err != nil {
		return err
	}

	ds, err := openDatastore(rewriteDatastore)
	if err != nil {
		return err
	}
	if ds != nil {
		defer ds.Close()
	}

	if fi.IsDir() {
		if !rewriteInPlace && rewriteSuffix == "" && !rewriteDryRun {
			return fmt.Errorf("directory targets need --in-place, --suffix, or --dry-run")
		}
		return rewriteTree(cmd, engine, cfg, ds, target)
	}
	return rewriteSingle(cmd, engine, ds, target)
}

func rewriteSingle(cmd *cobra.Command, engine *casebreak.Engine, ds store.Store, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	res, err := engine.TransformBytes(content)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	printDiagnostics(cmd, path, res.Diagnostics)

	if ds != nil {
		if err := ds.AddResult(res.FileResult(path, int64(len(content)))); err != nil {
			return fmt.Errorf("storing result: %w", err)
		}
	}

	if rewriteDryRun {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, describeResult(res))
		}
		return nil
	}

	switch {
	case rewriteInPlace:
		if res.Changed {
			if err := writeFilePreservingMode(path, res.Output); err != nil {
				return err
			}
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, describeResult(res))
		}
	case rewriteSuffix != "":
		if err := writeFilePreservingMode(path+rewriteSuffix, res.Output); err != nil {
			return err
		}
	case rewriteOutputPath != "" && rewriteOutputPath != "-":
		if err := writeFilePreservingMode(rewriteOutputPath, res.Output); err != nil {
			return err
		}
	default:
		if _, err := cmd.OutOrStdout().Write(res.Output); err != nil {
			return err
		}
	}
	return nil
}

func rewriteTree(cmd *cobra.Command, engine *casebreak.Engine, cfg *config.Config, ds store.Store, root string) error {
	enumerator := enum.NewFilesystemEnumerator(enum.Config{
		Root:          root,
		Extensions:    cfg.Extensions,
		IncludeHidden: cfg.IncludeHidden,
		MaxFileSize:   cfg.MaxFileSize,
	})

	var mu sync.Mutex
	var files, changed, injections, failed int

	err := enumerator.Enumerate(context.Background(), func(path string, content []byte) error {
		res, err := engine.TransformBytes(content)

		mu.Lock()
		defer mu.Unlock()
		files++

		if err != nil {
			// Fatal per-file errors leave the file untouched; keep going so
			// one broken file does not abort the batch.
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			return nil
		}

		printDiagnostics(cmd, path, res.Diagnostics)

		if ds != nil {
			if err := ds.AddResult(res.FileResult(path, int64(len(content)))); err != nil {
				return fmt.Errorf("storing result: %w", err)
			}
		}

		if res.Changed {
			changed++
			injections += res.Injections
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, describeResult(res))
			}
			if !rewriteDryRun {
				out := path
				if rewriteSuffix != "" {
					out = path + rewriteSuffix
				}
				if err := writeFilePreservingMode(out, res.Output); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%d files processed, %d rewritten, %d breaks injected\n", files, changed, injections)
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

func describeResult(res *casebreak.Result) string {
	if !res.Changed {
		return "unchanged"
	}
	return fmt.Sprintf("%d break(s) injected, %d directive(s) removed", res.Injections, res.Directives)
}

func printDiagnostics(cmd *cobra.Command, path string, diags []casebreak.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s:%s\n", path, d)
	}
}

// writeFilePreservingMode keeps the original file's permission bits when
// overwriting, falling back to 0644 for new files.
func writeFilePreservingMode(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
