package infra

import "context"

type RunSpec struct {
	Interpreter string
	Script      string
	Args        []string
	Env         []string
	Dir         string
}

type RunOutput struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=ScriptRunner --output=../../../mocks
type ScriptRunner interface {
	Run(ctx context.Context, spec RunSpec) (*RunOutput, error)
}
