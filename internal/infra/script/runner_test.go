package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sunr3d/classify-suppliers/internal/interfaces/infra"
)

func writeScript(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRunner_Run_Success(t *testing.T) {
	r := New(zaptest.NewLogger(t))
	script := writeScript(t, `echo "args: $@"
echo "ZIP_OK:/tmp/out.zip"
`)

	out, err := r.Run(context.Background(), infra.RunSpec{
		Interpreter: "/bin/sh",
		Script:      script,
		Args:        []string{"--empresa", "42"},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)
	assert.Contains(t, out.Stdout, "args: --empresa 42")
	assert.Contains(t, out.Stdout, "ZIP_OK:/tmp/out.zip")
	assert.Empty(t, out.Stderr)
}

func TestRunner_Run_NonZeroExit(t *testing.T) {
	r := New(zaptest.NewLogger(t))
	script := writeScript(t, `echo "partial output"
echo "Traceback: conexão recusada" >&2
exit 3
`)

	out, err := r.Run(context.Background(), infra.RunSpec{
		Interpreter: "/bin/sh",
		Script:      script,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, out.ExitCode)
	assert.Equal(t, "Traceback: conexão recusada\n", out.Stderr)
	assert.Contains(t, out.Stdout, "partial output")
}

func TestRunner_Run_Env(t *testing.T) {
	r := New(zaptest.NewLogger(t))
	script := writeScript(t, `echo "$SQLANY_API_DLL"`)

	out, err := r.Run(context.Background(), infra.RunSpec{
		Interpreter: "/bin/sh",
		Script:      script,
		Env:         []string{"SQLANY_API_DLL=/opt/sqlany/lib64/libdbcapi_r.so"},
	})

	require.NoError(t, err)
	assert.Equal(t, "/opt/sqlany/lib64/libdbcapi_r.so\n", out.Stdout)
}

func TestRunner_Run_Dir(t *testing.T) {
	r := New(zaptest.NewLogger(t))
	script := writeScript(t, `pwd`)
	dir := t.TempDir()

	out, err := r.Run(context.Background(), infra.RunSpec{
		Interpreter: "/bin/sh",
		Script:      script,
		Dir:         dir,
	})

	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Contains(t, out.Stdout, resolved)
}

func TestRunner_Run_StartFailed(t *testing.T) {
	r := New(zaptest.NewLogger(t))

	_, err := r.Run(context.Background(), infra.RunSpec{
		Interpreter: filepath.Join(t.TempDir(), "no-such-python"),
		Script:      "script.py",
	})

	assert.ErrorIs(t, err, ErrStartFailed)
}

func TestRunner_Run_ContextTimeout(t *testing.T) {
	r := New(zaptest.NewLogger(t))
	script := writeScript(t, `exec sleep 5`)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	out, err := r.Run(ctx, infra.RunSpec{
		Interpreter: "/bin/sh",
		Script:      script,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, -1, out.ExitCode)
}

func TestResolveInterpreter(t *testing.T) {
	venv := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(venv, "bin"), 0755))
	venvPy := filepath.Join(venv, "bin", "python3")
	require.NoError(t, os.WriteFile(venvPy, []byte("#!/bin/sh\n"), 0755))

	emptyVenv := t.TempDir()

	tests := []struct {
		name     string
		bin      string
		venv     string
		nix      string
		expected string
	}{
		{"explicit bin wins", "/usr/bin/python3.12", venv, "/nix/store/python3", "/usr/bin/python3.12"},
		{"venv python", "", venv, "/nix/store/python3", venvPy},
		{"nix python", "", emptyVenv, "/nix/store/python3", "/nix/store/python3"},
		{"default", "", emptyVenv, "", "python3"},
		{"no venv configured", "", "", "", "python3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveInterpreter(tt.bin, tt.venv, tt.nix))
		})
	}
}
