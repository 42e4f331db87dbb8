package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/sunr3d/classify-suppliers/internal/interfaces/infra"
)

const (
	defaultInterpreter = "python3"
	waitDelay          = 10 * time.Second
)

var _ infra.ScriptRunner = (*runner)(nil)

type runner struct {
	logger *zap.Logger
}

func New(log *zap.Logger) infra.ScriptRunner {
	return &runner{logger: log}
}

// Run запускает интерпретатор с переданным скриптом и ждет завершения.
// Ненулевой код выхода ошибкой не считается: он возвращается в RunOutput.
func (r *runner) Run(ctx context.Context, spec infra.RunSpec) (*infra.RunOutput, error) {
	args := append([]string{spec.Script}, spec.Args...)
	cmd := exec.CommandContext(ctx, spec.Interpreter, args...)
	cmd.Env = spec.Env
	cmd.Dir = spec.Dir
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	out := &infra.RunOutput{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctx.Err() != nil {
		out.ExitCode = -1
		return out, fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
	default:
		return nil, fmt.Errorf("%w: %v", ErrStartFailed, err)
	}

	r.logger.Info("скрипт завершен",
		zap.String("interpreter", spec.Interpreter),
		zap.String("script", spec.Script),
		zap.Int("exit_code", out.ExitCode),
		zap.Duration("duration", time.Since(start)),
		zap.Int("stdout_bytes", stdout.Len()),
		zap.Int("stderr_bytes", stderr.Len()),
	)

	return out, nil
}

// ResolveInterpreter выбирает интерпретатор Python: явно заданный bin,
// затем python3 из виртуального окружения venvDir, затем nixPython,
// иначе python3 из PATH.
func ResolveInterpreter(bin, venvDir, nixPython string) string {
	if bin != "" {
		return bin
	}

	if venvDir != "" {
		venvPy := filepath.Join(venvDir, "bin", defaultInterpreter)
		if abs, err := filepath.Abs(venvPy); err == nil {
			venvPy = abs
		}
		if info, err := os.Stat(venvPy); err == nil && !info.IsDir() {
			return venvPy
		}
	}

	if nixPython != "" {
		return nixPython
	}

	return defaultInterpreter
}
