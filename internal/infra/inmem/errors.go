package inmem

import "errors"

var (
	ErrJobNotFound = errors.New("задача не найдена")
	ErrJobNil      = errors.New("задача не может быть nil")
	ErrJobIDEmpty  = errors.New("ID задачи не может быть пустым")
	ErrContextDone = errors.New("отмена контекста")
)
