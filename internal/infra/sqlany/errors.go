package sqlany

import "errors"

var (
	ErrBaseNotSet     = errors.New("SQLANY_BASE не задан в окружении")
	ErrDriverNotFound = errors.New("библиотека SQL Anywhere не найдена")
)
