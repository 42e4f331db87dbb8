// Package sqlany собирает окружение, необходимое скрипту классификации
// для загрузки клиентской библиотеки SQL Anywhere (dbcapi).
package sqlany

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	libDir     = "lib64"
	binDir     = "bin64"
	driverFile = "libdbcapi_r.so"
)

type Environment struct {
	Base       string
	DriverPath string
}

// Resolve проверяет установку клиента. dllOverride, если задан,
// заменяет путь к драйверу по умолчанию <base>/lib64/libdbcapi_r.so.
func Resolve(base, dllOverride string) (*Environment, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return nil, ErrBaseNotSet
	}

	driverPath := strings.TrimSpace(dllOverride)
	if driverPath == "" {
		driverPath = filepath.Join(base, libDir, driverFile)
	}

	info, err := os.Stat(driverPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDriverNotFound, driverPath)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s является директорией", ErrDriverNotFound, driverPath)
	}

	return &Environment{Base: base, DriverPath: driverPath}, nil
}

// Apply возвращает копию parent с переменными драйвера.
// Каталоги клиента добавляются в начало LD_LIBRARY_PATH и PATH.
func (e *Environment) Apply(parent []string) []string {
	overrides := map[string]string{
		"SQLANY_API_DLL":  e.DriverPath,
		"SQLANY_BASE":     e.Base,
		"SQLANY17":        e.Base,
		"LD_LIBRARY_PATH": prependPath(filepath.Join(e.Base, libDir), lookup(parent, "LD_LIBRARY_PATH")),
		"PATH":            prependPath(filepath.Join(e.Base, binDir), lookup(parent, "PATH")),
	}

	env := make([]string, 0, len(parent)+len(overrides))
	for _, kv := range parent {
		key, _, _ := strings.Cut(kv, "=")
		if _, replaced := overrides[key]; replaced {
			continue
		}
		env = append(env, kv)
	}
	for _, key := range []string{"SQLANY_API_DLL", "SQLANY_BASE", "SQLANY17", "LD_LIBRARY_PATH", "PATH"} {
		env = append(env, key+"="+overrides[key])
	}

	return env
}

func lookup(env []string, key string) string {
	value := ""
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k == key {
			value = v
		}
	}
	return value
}

func prependPath(dir, list string) string {
	if list == "" {
		return dir
	}
	return dir + string(os.PathListSeparator) + list
}
