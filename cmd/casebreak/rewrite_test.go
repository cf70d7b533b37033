package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/casebreak/casebreak/pkg/store"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCmd returns a command with captured stdout/stderr.
func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd, out, errOut
}

// resetRewriteFlags restores the rewrite command's flag globals after a test.
func resetRewriteFlags(t *testing.T) {
	t.Cleanup(func() {
		rewriteConfigPath = ""
		rewriteInPlace = false
		rewriteOutputPath = ""
		rewriteSuffix = ""
		rewriteDatastore = ""
		rewriteDryRun = false
		rewriteMaxFileSize = 10 * 1024 * 1024
		rewriteIncludeHidden = false
		rewriteExtensions = ""
		rewriteNoPrefilter = false
		verbose = false
		quiet = false
	})
}

const governedSrc = "fall_through(false); switch(a){case 1: f(); case 2: g(); break;}"
const rewrittenSrc = "switch(a){case 1: f(); break; case 2: g(); break;}"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunRewrite_SingleFileToStdout(t *testing.T) {
	resetRewriteFlags(t)
	path := filepath.Join(t.TempDir(), "unit.cc")
	writeFile(t, path, governedSrc)

	cmd, out, _ := newTestCmd()
	require.NoError(t, runRewrite(cmd, []string{path}))

	assert.Equal(t, rewrittenSrc, out.String())

	// The input is untouched without --in-place.
	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, governedSrc, string(onDisk))
}

func TestRunRewrite_InPlace(t *testing.T) {
	resetRewriteFlags(t)
	rewriteInPlace = true
	path := filepath.Join(t.TempDir(), "unit.cc")
	writeFile(t, path, governedSrc)

	cmd, out, _ := newTestCmd()
	require.NoError(t, runRewrite(cmd, []string{path}))

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, rewrittenSrc, string(onDisk))
	assert.Contains(t, out.String(), "1 break(s) injected, 1 directive(s) removed")
}

func TestRunRewrite_OutputPath(t *testing.T) {
	resetRewriteFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "unit.cc")
	writeFile(t, path, governedSrc)
	rewriteOutputPath = filepath.Join(dir, "unit.out.cc")

	cmd, _, _ := newTestCmd()
	require.NoError(t, runRewrite(cmd, []string{path}))

	onDisk, err := os.ReadFile(rewriteOutputPath)
	require.NoError(t, err)
	assert.Equal(t, rewrittenSrc, string(onDisk))
}

func TestRunRewrite_TreeWithSuffix(t *testing.T) {
	resetRewriteFlags(t)
	rewriteSuffix = ".out"
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.cc"), governedSrc)
	writeFile(t, filepath.Join(dir, "sub", "b.cc"), "switch(x){case 1: f(); break;}")

	cmd, out, _ := newTestCmd()
	require.NoError(t, runRewrite(cmd, []string{dir}))

	onDisk, err := os.ReadFile(filepath.Join(dir, "a.cc.out"))
	require.NoError(t, err)
	assert.Equal(t, rewrittenSrc, string(onDisk))

	// Unchanged files get no sibling output.
	_, err = os.Stat(filepath.Join(dir, "sub", "b.cc.out"))
	assert.True(t, os.IsNotExist(err))

	assert.Contains(t, out.String(), "2 files processed, 1 rewritten, 1 breaks injected")
}

func TestRunRewrite_DryRunLeavesTreeUntouched(t *testing.T) {
	resetRewriteFlags(t)
	rewriteDryRun = true
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.cc"), governedSrc)

	cmd, out, _ := newTestCmd()
	require.NoError(t, runRewrite(cmd, []string{dir}))

	onDisk, err := os.ReadFile(filepath.Join(dir, "a.cc"))
	require.NoError(t, err)
	assert.Equal(t, governedSrc, string(onDisk))
	assert.Contains(t, out.String(), "1 rewritten")
}

func TestRunRewrite_DirectoryNeedsWriteMode(t *testing.T) {
	resetRewriteFlags(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.cc"), governedSrc)

	cmd, _, _ := newTestCmd()
	err := runRewrite(cmd, []string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--in-place")
}

func TestRunRewrite_MissingTarget(t *testing.T) {
	resetRewriteFlags(t)
	cmd, _, _ := newTestCmd()
	err := runRewrite(cmd, []string{filepath.Join(t.TempDir(), "missing.cc")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestRunRewrite_MalformedFileInTreeDoesNotAbort(t *testing.T) {
	resetRewriteFlags(t)
	rewriteDryRun = true
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.cc"), "fall_through(false); switch(x) {")
	writeFile(t, filepath.Join(dir, "good.cc"), governedSrc)

	cmd, out, errOut := newTestCmd()
	err := runRewrite(cmd, []string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 file(s) failed")
	assert.Contains(t, errOut.String(), "bad.cc")
	assert.Contains(t, out.String(), "2 files processed, 1 rewritten")
}

func TestRunRewrite_Datastore(t *testing.T) {
	resetRewriteFlags(t)
	dir := t.TempDir()
	rewriteDryRun = true
	rewriteDatastore = filepath.Join(dir, "results.db")
	writeFile(t, filepath.Join(dir, "src", "a.cc"), governedSrc)

	cmd, _, _ := newTestCmd()
	require.NoError(t, runRewrite(cmd, []string{filepath.Join(dir, "src")}))

	s, err := store.New(store.Config{Path: rewriteDatastore})
	require.NoError(t, err)
	defer s.Close()

	sum, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Files)
	assert.Equal(t, 1, sum.Changed)
	assert.Equal(t, 1, sum.Injections)
}

func TestLoadConfig_ExtensionOverride(t *testing.T) {
	cfg, err := loadConfig("", 0, false, "cc, .hpp,")
	require.NoError(t, err)
	assert.Equal(t, []string{".cc", ".hpp"}, cfg.Extensions)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	writeFile(t, path, "directive_spelling: xfall\n")

	cfg, err := loadConfig(path, 0, true, "")
	require.NoError(t, err)
	assert.Equal(t, "xfall", cfg.DirectiveSpelling)
	assert.True(t, cfg.IncludeHidden)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), 0, false, "")
	require.Error(t, err)
}
