package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const latch = `
design:
  name: top
  in: S, R
  out: Q, NQ
  parts:
    - {template: SRLatch, name: l, conns: "s=S, r=R, q=Q, nq=NQ"}
inputs:
  S: true
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "latch.yaml")
	require.NoError(t, os.WriteFile(p, []byte(latch), 0o644))

	out, err := execute(t, "run", p, "--ticks", "2", "--log-level", "error", "--config", filepath.Join(dir, "none.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "tick=2 ")
	assert.Contains(t, out, "oscillation=false")
	assert.Contains(t, out, "Q=1\n")
	assert.Contains(t, out, "NQ=0\n")
	assert.Contains(t, out, "l.s=1\n")
}

func TestRun_errors(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run", filepath.Join(dir, "missing.yaml"), "--config", filepath.Join(dir, "none.yaml"))
	assert.Error(t, err)

	p := filepath.Join(dir, "latch.yaml")
	require.NoError(t, os.WriteFile(p, []byte(latch), 0o644))
	_, err = execute(t, "run", p, "--log-level", "loud", "--config", filepath.Join(dir, "none.yaml"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "meshsim version dev\n", out)
}
