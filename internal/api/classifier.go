package api

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sunr3d/classify-suppliers/internal/config"
	"github.com/sunr3d/classify-suppliers/internal/interfaces/services"
	"github.com/sunr3d/classify-suppliers/internal/services/classifier_service"
	"github.com/sunr3d/classify-suppliers/models"
)

const multipartMemory = 32 << 20

var (
	fileFields      = []string{"files", "file"}
	companyFields   = []string{"empresa", "company", "codigoEmpresa"}
	startDateFields = []string{"dataIni", "data_ini", "dataInicial", "startDate"}
	endDateFields   = []string{"dataFim", "data_fim", "dataFinal", "endDate"}
)

//go:embed web/index.html
var indexPage []byte

type ClassifierAPI struct {
	service services.ClassifierService
	logger  *zap.Logger
	cfg     *config.Config
}

func New(service services.ClassifierService, logger *zap.Logger, cfg *config.Config) *ClassifierAPI {
	return &ClassifierAPI{
		service: service,
		logger:  logger,
		cfg:     cfg,
	}
}

// POST /api/classify-suppliers
func (h *ClassifierAPI) ClassifySuppliers(w http.ResponseWriter, r *http.Request) {
	if h.cfg.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isTooLarge(err) {
			h.logger.Warn("превышен размер запроса", zap.Int64("limit", h.cfg.MaxUploadSize))
			writeJSON(w, http.StatusRequestEntityTooLarge, classifyResp{
				Error: fmt.Sprintf("Размер загружаемых файлов превышает %d байт", h.cfg.MaxUploadSize),
			})
			return
		}
		h.logger.Error("ошибка разбора multipart формы", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, classifyResp{Error: "Некорректная multipart форма"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	uploads, err := readUploads(r.MultipartForm)
	if err != nil {
		h.logger.Error("ошибка чтения загруженных файлов", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, classifyResp{Error: "Не удалось прочитать загруженные файлы"})
		return
	}

	params := models.JobParams{
		Company:   pick(r.MultipartForm, companyFields...),
		StartDate: pick(r.MultipartForm, startDateFields...),
		EndDate:   pick(r.MultipartForm, endDateFields...),
	}

	ctx := r.Context()
	result, err := h.service.Classify(ctx, params, uploads)
	if err != nil {
		h.writeClassifyError(w, err)
		return
	}

	if !result.HasArchive() {
		writeJSON(w, http.StatusOK, classifyResp{OK: true, Log: result.Log})
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", safeFilename(result.ArchiveName)))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Archive)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Archive); err != nil {
		h.logger.Error("ошибка отправки архива", zap.String("job_id", result.JobID), zap.Error(err))
	}
}

// GET /api/jobs
func (h *ClassifierAPI) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.ListJobs(r.Context())
	if err != nil {
		h.logger.Error("ошибка получения списка задач", zap.Error(err))
		http.Error(w, "Внутренняя ошибка сервера при получении списка задач", http.StatusInternalServerError)
		return
	}

	resp := listJobsResp{Jobs: make([]jobResp, 0, len(jobs))}
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, jobResp{
			ID:        job.ID,
			Status:    string(job.Status),
			Params:    job.Params,
			Files:     job.Files,
			CreatedAt: job.CreatedAt.Format(time.RFC3339),
			UpdatedAt: job.UpdatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// GET /healthz
func (h *ClassifierAPI) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResp{OK: true})
}

// GET /
func (h *ClassifierAPI) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexPage); err != nil {
		h.logger.Error("ошибка отправки страницы", zap.Error(err))
	}
}

func (h *ClassifierAPI) writeClassifyError(w http.ResponseWriter, err error) {
	var scriptErr *classifier_service.ScriptError
	var markerErr *classifier_service.MarkerError

	switch {
	case errors.Is(err, classifier_service.ErrMissingParams):
		h.logger.Warn("некорректный запрос классификации", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, classifyResp{Error: err.Error()})
	case errors.Is(err, classifier_service.ErrServerBusy):
		h.logger.Warn("сервер занят", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, classifyResp{Error: err.Error()})
	case errors.As(err, &scriptErr):
		exitCode := scriptErr.ExitCode
		writeJSON(w, http.StatusInternalServerError, classifyResp{Error: scriptErr.Error(), ExitCode: &exitCode})
	case errors.As(err, &markerErr):
		exitCode := 0
		writeJSON(w, http.StatusInternalServerError, classifyResp{Error: markerErr.Error(), ExitCode: &exitCode})
	default:
		h.logger.Error("ошибка классификации", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, classifyResp{Error: err.Error()})
	}
}

// Вспомогательные функции
func readUploads(form *multipart.Form) ([]models.Upload, error) {
	var uploads []models.Upload
	for _, field := range fileFields {
		for _, fh := range form.File[field] {
			upload, err := readUpload(fh)
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, upload)
		}
	}
	return uploads, nil
}

func readUpload(fh *multipart.FileHeader) (models.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return models.Upload{}, fmt.Errorf("%s: %w", fh.Filename, err)
	}
	defer f.Close()

	data := make([]byte, fh.Size)
	if _, err := io.ReadFull(f, data); err != nil {
		return models.Upload{}, fmt.Errorf("%s: %w", fh.Filename, err)
	}

	return models.Upload{Name: fh.Filename, Data: data}, nil
}

// pick возвращает первое непустое значение среди альтернативных имен поля.
func pick(form *multipart.Form, names ...string) string {
	for _, name := range names {
		values := form.Value[name]
		if len(values) == 0 {
			continue
		}
		if v := strings.TrimSpace(values[0]); v != "" {
			return v
		}
	}
	return ""
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

func safeFilename(name string) string {
	return strings.NewReplacer(`"`, "_", "\r", "", "\n", "").Replace(name)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
