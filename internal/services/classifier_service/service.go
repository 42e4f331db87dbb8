package classifier_service

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sunr3d/classify-suppliers/internal/config"
	"github.com/sunr3d/classify-suppliers/internal/infra/script"
	"github.com/sunr3d/classify-suppliers/internal/infra/sqlany"
	"github.com/sunr3d/classify-suppliers/internal/interfaces/infra"
	"github.com/sunr3d/classify-suppliers/internal/interfaces/services"
	"github.com/sunr3d/classify-suppliers/models"
	"github.com/sunr3d/classify-suppliers/pkg/checksum"
)

const inputDirName = "input"

var _ services.ClassifierService = (*classifierService)(nil)

type classifierService struct {
	registry infra.JobRegistry
	runner   infra.ScriptRunner
	logger   *zap.Logger
	cfg      *config.Config

	// mu делает проверку лимита и регистрацию задачи атомарными.
	mu      sync.Mutex
	environ func() []string
}

func New(log *zap.Logger, cfg *config.Config, registry infra.JobRegistry, runner infra.ScriptRunner) services.ClassifierService {
	return &classifierService{
		registry: registry,
		runner:   runner,
		logger:   log,
		cfg:      cfg,
		environ:  os.Environ,
	}
}

func (s *classifierService) Classify(ctx context.Context, params models.JobParams, uploads []models.Upload) (*models.JobResult, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	params = normalizeParams(params)
	if missing := missingFields(params, uploads); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingParams, strings.Join(missing, ", "))
	}

	driverEnv, err := sqlany.Resolve(s.cfg.SQLAnyBase, s.cfg.SQLAnyAPIDLL)
	if err != nil {
		s.logger.Error("окружение SQL Anywhere недоступно", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrDriverConfig, err)
	}
	s.logger.Debug("используется DBCAPI", zap.String("driver", driverEnv.DriverPath))

	scriptPath, err := s.scriptPath()
	if err != nil {
		return nil, err
	}

	job, err := s.startJob(ctx, params)
	if err != nil {
		return nil, err
	}
	defer s.finishJob(ctx, job)

	files, err := s.saveUploads(ctx, job.InputDir, uploads)
	if err != nil {
		job.Status = models.JobStatusFailed
		return nil, err
	}
	job.Files = files
	job.UpdatedAt = time.Now()
	if err := s.registry.SaveJob(ctx, job); err != nil {
		s.logger.Warn("не удалось обновить задачу", zap.String("job_id", job.ID), zap.Error(err))
	}

	runCtx := ctx
	if s.cfg.ScriptTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.ScriptTimeout)
		defer cancel()
	}

	interpreter := script.ResolveInterpreter(s.cfg.PythonBin, s.cfg.VenvDir, s.cfg.NixPython)
	s.logger.Info("запуск скрипта классификации",
		zap.String("job_id", job.ID),
		zap.String("interpreter", interpreter),
		zap.String("script", scriptPath),
		zap.String("company", params.Company),
		zap.String("start_date", params.StartDate),
		zap.String("end_date", params.EndDate),
		zap.Int("files", len(files)),
	)

	stop := s.keepAlive(runCtx, *job)
	defer stop()

	out, err := s.runner.Run(runCtx, infra.RunSpec{
		Interpreter: interpreter,
		Script:      scriptPath,
		Args:        scriptArgs(job.InputDir, params),
		Env:         driverEnv.Apply(s.environ()),
	})
	if err != nil {
		job.Status = models.JobStatusFailed
		s.logger.Error("ошибка запуска скрипта", zap.String("job_id", job.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrScriptRun, err)
	}
	job.ExitCode = out.ExitCode

	if out.ExitCode != 0 {
		job.Status = models.JobStatusFailed
		s.logger.Error("скрипт классификации завершился с ошибкой",
			zap.String("job_id", job.ID),
			zap.Int("exit_code", out.ExitCode),
			zap.String("stderr", out.Stderr),
		)
		return nil, &ScriptError{ExitCode: out.ExitCode, Stderr: out.Stderr}
	}

	result := &models.JobResult{
		JobID:    job.ID,
		ExitCode: out.ExitCode,
		Log:      strings.TrimSpace(out.Stdout),
	}

	archivePath, ok := findArchivePath(out.Stdout, s.cfg.ArchiveMarker)
	if !ok {
		if s.cfg.RequireArchive {
			job.Status = models.JobStatusFailed
			output := strings.TrimSpace(out.Stderr)
			if output == "" {
				output = result.Log
			}
			s.logger.Error("в выводе скрипта нет пути к архиву",
				zap.String("job_id", job.ID),
				zap.String("marker", s.cfg.ArchiveMarker),
				zap.String("output", output),
			)
			return nil, &MarkerError{Marker: s.cfg.ArchiveMarker, Output: output}
		}
		job.Status = models.JobStatusSucceeded
		return result, nil
	}

	data, err := s.readArchive(job, archivePath)
	if err != nil {
		job.Status = models.JobStatusFailed
		return nil, err
	}

	result.ArchiveName = filepath.Base(archivePath)
	result.Archive = data
	job.Status = models.JobStatusSucceeded

	return result, nil
}

func (s *classifierService) ListJobs(ctx context.Context) ([]models.Job, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	return s.registry.ListJobs(ctx)
}

func (s *classifierService) scriptPath() (string, error) {
	path, err := filepath.Abs(s.cfg.ScriptPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrScriptNotFound, err)
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrScriptNotFound, path)
	}

	return path, nil
}

func (s *classifierService) startJob(ctx context.Context, params models.JobParams) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.MaxJobsInProcess > 0 {
		count, err := s.registry.CountJobsInProcess(ctx)
		if err != nil {
			return nil, fmt.Errorf("не удалось получить количество задач в процессе: %w", err)
		}
		if count >= s.cfg.MaxJobsInProcess {
			return nil, ErrServerBusy
		}
	}

	jobsDir, err := filepath.Abs(s.cfg.JobsDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMkdirFailed, err)
	}

	jobID := uuid.New().String()
	dir := filepath.Join(jobsDir, "job_"+jobID)
	job := &models.Job{
		ID:        jobID,
		Status:    models.JobStatusRunning,
		Params:    params,
		Dir:       dir,
		InputDir:  filepath.Join(dir, inputDirName),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := os.MkdirAll(job.InputDir, 0755); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("%w: %v", ErrMkdirFailed, err)
	}

	if err := s.registry.SaveJob(ctx, job); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("%w: %v", ErrJobSave, err)
	}

	s.logger.Info("задача создана",
		zap.String("job_id", job.ID),
		zap.String("dir", job.Dir),
	)
	return job, nil
}

// keepAlive обновляет UpdatedAt копии задачи в реестре, пока выполняется
// скрипт, чтобы реестр не вытеснил ее по JOB_TTL. stop дожидается
// остановки горутины.
func (s *classifierService) keepAlive(ctx context.Context, job models.Job) (stop func()) {
	interval := s.cfg.JobTTL / 2
	if interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				job.UpdatedAt = now
				if err := s.registry.SaveJob(ctx, &job); err != nil {
					s.logger.Warn("не удалось продлить задачу", zap.String("job_id", job.ID), zap.Error(err))
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-finished
		})
	}
}

// finishJob вызывается на любом пути выхода из Classify, включая панику.
func (s *classifierService) finishJob(ctx context.Context, job *models.Job) {
	if job.Status == models.JobStatusRunning {
		job.Status = models.JobStatusFailed
	}

	if err := s.cleanupJob(job); err != nil {
		s.logger.Error("не удалось очистить временные файлы",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
	}

	if err := s.registry.DeleteJob(context.WithoutCancel(ctx), job.ID); err != nil {
		s.logger.Warn("не удалось удалить задачу из реестра", zap.String("job_id", job.ID), zap.Error(err))
	}

	s.logger.Info("задача завершена",
		zap.String("job_id", job.ID),
		zap.String("status", string(job.Status)),
		zap.Int("exit_code", job.ExitCode),
		zap.Duration("duration", time.Since(job.CreatedAt)),
	)
}

func (s *classifierService) cleanupJob(job *models.Job) error {
	if err := os.RemoveAll(job.Dir); err != nil {
		return fmt.Errorf("%w: %v", ErrRemoveFailed, err)
	}
	return nil
}

func (s *classifierService) saveUploads(ctx context.Context, dir string, uploads []models.Upload) ([]string, error) {
	names := make([]string, len(uploads))
	last := make(map[string]int, len(uploads))
	for i, u := range uploads {
		names[i] = uploadName(u.Name, i)
		last[names[i]] = i
	}

	writers := s.cfg.UploadWriters
	if writers < 1 {
		writers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(writers)

	files := make([]string, 0, len(last))
	for i, u := range uploads {
		name := names[i]
		if last[name] != i {
			continue
		}
		files = append(files, name)

		data := u.Data
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return fmt.Errorf("%w: %v", ErrContextDone, gctx.Err())
			default:
			}

			if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrUploadSave, name, err)
			}

			s.logger.Debug("файл сохранен",
				zap.String("filename", name),
				zap.Int("size", len(data)),
				zap.String("xxhash", checksum.CalculateHash(data)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return files, nil
}

func (s *classifierService) readArchive(job *models.Job, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Error("не удалось прочитать архив",
			zap.String("job_id", job.ID),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrArchiveRead, err)
	}

	if !isWithin(job.Dir, path) {
		s.logger.Warn("архив сформирован вне директории задачи и не будет удален",
			zap.String("job_id", job.ID),
			zap.String("path", path),
		)
	}

	s.logger.Info("архив с результатами получен",
		zap.String("job_id", job.ID),
		zap.String("archive", filepath.Base(path)),
		zap.Int("size", len(data)),
		zap.String("xxhash", checksum.CalculateHash(data)),
	)

	return data, nil
}

func normalizeParams(p models.JobParams) models.JobParams {
	return models.JobParams{
		Company:   strings.TrimSpace(p.Company),
		StartDate: strings.TrimSpace(p.StartDate),
		EndDate:   strings.TrimSpace(p.EndDate),
	}
}

func missingFields(p models.JobParams, uploads []models.Upload) []string {
	var missing []string
	if len(uploads) == 0 {
		missing = append(missing, "files")
	}
	if p.Company == "" {
		missing = append(missing, "empresa")
	}
	if p.StartDate == "" {
		missing = append(missing, "dataIni")
	}
	if p.EndDate == "" {
		missing = append(missing, "dataFim")
	}
	return missing
}

func scriptArgs(inputDir string, p models.JobParams) []string {
	return []string{
		"--input-dir", inputDir,
		"--empresa", p.Company,
		"--data-ini", p.StartDate,
		"--data-fim", p.EndDate,
	}
}

// uploadName оставляет только базовое имя: браузер присылает
// относительный путь при загрузке каталога.
func uploadName(name string, idx int) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	if base == "." || base == "/" || base == ".." || base == "" {
		return fmt.Sprintf("upload_%d", idx)
	}
	return base
}

// findArchivePath ищет последнюю строку stdout, начинающуюся с marker.
func findArchivePath(stdout, marker string) (string, bool) {
	if marker == "" {
		return "", false
	}

	var path string
	sc := bufio.NewScanner(strings.NewReader(stdout))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if rest, ok := strings.CutPrefix(line, marker); ok {
			if rest = strings.TrimSpace(rest); rest != "" {
				path = rest
			}
		}
	}

	return path, path != ""
}

func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
