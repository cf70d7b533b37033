package main

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunVersion(t *testing.T) {
	cmd, out, _ := newTestCmd()
	require.NoError(t, runVersion(cmd, nil))

	s := out.String()
	assert.Contains(t, s, "Casebreak v"+version)
	assert.Contains(t, s, "Commit: "+commit)
	assert.Contains(t, s, runtime.Version())
	assert.Contains(t, s, runtime.GOOS+"/"+runtime.GOARCH)
}
