package script

import "errors"

var (
	ErrStartFailed = errors.New("не удалось запустить скрипт")
	ErrInterrupted = errors.New("выполнение скрипта прервано")
)
