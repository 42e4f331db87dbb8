package config

import "time"

type Config struct {
	HTTPHost         string        `envconfig:"HTTP_HOST" default:"localhost"`
	HTTPPort         string        `envconfig:"HTTP_PORT" default:"8080"`
	HTTPReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"1m"`
	HTTPWriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30m"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`

	JobsDir          string        `envconfig:"JOBS_DIR" default:"tmp"`
	MaxUploadSize    int64         `envconfig:"MAX_UPLOAD_SIZE" default:"536870912"`
	MaxJobsInProcess int           `envconfig:"MAX_JOBS_IN_PROCESS" default:"4"`
	JobTTL           time.Duration `envconfig:"JOB_TTL" default:"2h"`
	UploadWriters    int           `envconfig:"UPLOAD_WRITERS" default:"4"`

	ScriptPath     string        `envconfig:"SCRIPT_PATH" default:"scripts/Classificador_v1.py"`
	PythonBin      string        `envconfig:"PYTHON_BIN"`
	NixPython      string        `envconfig:"NIX_PYTHON"`
	VenvDir        string        `envconfig:"VENV_DIR" default:".venv"`
	ScriptTimeout  time.Duration `envconfig:"SCRIPT_TIMEOUT" default:"0s"`
	ArchiveMarker  string        `envconfig:"ARCHIVE_MARKER" default:"ZIP_OK:"`
	RequireArchive bool          `envconfig:"REQUIRE_ARCHIVE" default:"true"`

	SQLAnyBase   string `envconfig:"SQLANY_BASE"`
	SQLAnyAPIDLL string `envconfig:"SQLANY_API_DLL"`
}
