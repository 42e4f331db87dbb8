package classifier_service

import (
	"errors"
	"fmt"
)

var (
	ErrContextDone = errors.New("отмена контекста")

	ErrMissingParams = errors.New("параметры отсутствуют")
	ErrServerBusy    = errors.New("сервер занят, максимальное количество задач в процессе достигнуто")

	ErrDriverConfig   = errors.New("окружение SQL Anywhere не настроено")
	ErrScriptNotFound = errors.New("скрипт классификации не найден")

	ErrMkdirFailed  = errors.New("не удалось создать директорию")
	ErrUploadSave   = errors.New("не удалось сохранить загруженный файл")
	ErrRemoveFailed = errors.New("не удалось удалить директорию задачи")
	ErrJobSave      = errors.New("не удалось сохранить задачу")

	ErrScriptRun            = errors.New("не удалось выполнить скрипт классификации")
	ErrScriptFailed         = errors.New("скрипт классификации завершился с ошибкой")
	ErrUnknownScriptFailure = errors.New("неизвестная ошибка в скрипте Python")
	ErrArchiveMarkerMissing = errors.New("скрипт завершился без сообщения о сформированном архиве")
	ErrArchiveRead          = errors.New("не удалось прочитать архив с результатами")
)

// ScriptError - ненулевой код выхода скрипта. Текст ошибки - stderr без изменений.
type ScriptError struct {
	ExitCode int
	Stderr   string
}

func (e *ScriptError) Error() string {
	if e.Stderr == "" {
		return ErrUnknownScriptFailure.Error()
	}
	return e.Stderr
}

func (e *ScriptError) Unwrap() error {
	return ErrScriptFailed
}

// MarkerError - скрипт завершился успешно, но не сообщил путь к архиву.
// Output - stderr скрипта, а если он пуст, то stdout.
type MarkerError struct {
	Marker string
	Output string
}

func (e *MarkerError) Error() string {
	msg := fmt.Sprintf("%s (%s)", ErrArchiveMarkerMissing.Error(), e.Marker)
	if e.Output == "" {
		return msg
	}
	return msg + ": " + e.Output
}

func (e *MarkerError) Unwrap() error {
	return ErrArchiveMarkerMissing
}
