package bank

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"eduexercise/internal/answersheet"
	"eduexercise/internal/app/apiresp"
	"eduexercise/internal/question"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	svc            bankService
	validate       *validator.Validate
	maxUploadBytes int64
}

type bankService interface {
	Import(ctx context.Context, r io.Reader, in ImportInput) (*ImportReport, error)
	List(ctx context.Context, f question.Filter) ([]question.Question, error)
	Get(ctx context.Context, id string) (*question.Question, error)
	Export(ctx context.Context, items []question.Question) (*File, error)
	ExportStored(ctx context.Context, f question.Filter) (*File, error)
	Template(ctx context.Context, version int) (*File, error)
	Layout(ctx context.Context, in SheetInput) (answersheet.Layout, error)
	Print(ctx context.Context, driver answersheet.PrintDriver, in SheetInput) error
	PDF(ctx context.Context, in SheetInput) (*File, error)
}

type apiResponse struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type exportRequest struct {
	Questions []question.Question `json:"questions" validate:"required,min=1,max=10000"`
}

type answerSheetRequest struct {
	Subject   string              `json:"subject" validate:"required,max=120"`
	Token     string              `json:"token" validate:"omitempty,max=64"`
	Questions []question.Question `json:"questions" validate:"omitempty,max=1000"`
}

// NewHandler serves svc. maxUploadMB caps import uploads; zero means 10 MB.
func NewHandler(svc bankService, maxUploadMB int) *Handler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &Handler{
		svc:            svc,
		validate:       validator.New(),
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			writeJSON(w, r, http.StatusRequestEntityTooLarge, apiResponse{OK: false, Error: "file too large"})
			return
		}
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid multipart form"})
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "file is required"})
		return
	}
	defer file.Close()

	report, err := h.svc.Import(r.Context(), file, ImportInput{
		Subject: strings.TrimSpace(r.FormValue("subject")),
		Save:    parseBool(r.FormValue("save")),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, apiResponse{OK: true, Data: report})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "limit must be a non-negative integer"})
			return
		}
		f.Limit = n
	}
	items, err := h.svc.List(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, apiResponse{OK: true, Data: items})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, apiResponse{OK: true, Data: item})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "questions are required"})
		return
	}
	file, err := h.svc.Export(r.Context(), req.Questions)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeFile(w, file)
}

func (h *Handler) ExportStored(w http.ResponseWriter, r *http.Request) {
	file, err := h.svc.ExportStored(r.Context(), filterFromQuery(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeFile(w, file)
}

func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	version := 1
	if raw := strings.TrimSpace(r.URL.Query().Get("version")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "version must be 1 or 2"})
			return
		}
		version = n
	}
	file, err := h.svc.Template(r.Context(), version)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeFile(w, file)
}

func (h *Handler) Layout(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeSheetRequest(w, r)
	if !ok {
		return
	}
	layout, err := h.svc.Layout(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, apiResponse{OK: true, Data: layout})
}

func (h *Handler) Print(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeSheetRequest(w, r)
	if !ok {
		return
	}
	if err := h.svc.Print(r.Context(), answersheet.ResponsePrinter{W: w}, in); err != nil {
		writeServiceError(w, r, err)
		return
	}
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeSheetRequest(w, r)
	if !ok {
		return
	}
	file, err := h.svc.PDF(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeFile(w, file)
}

func (h *Handler) decodeSheetRequest(w http.ResponseWriter, r *http.Request) (SheetInput, bool) {
	var req answerSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid request body"})
		return SheetInput{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "subject is required"})
		return SheetInput{}, false
	}
	return SheetInput{
		Subject:   strings.TrimSpace(req.Subject),
		Token:     strings.TrimSpace(req.Token),
		Questions: req.Questions,
	}, true
}

func filterFromQuery(r *http.Request) question.Filter {
	q := r.URL.Query()
	return question.Filter{
		Subject: strings.TrimSpace(q.Get("subject")),
		Token:   strings.TrimSpace(q.Get("token")),
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "ya", "on":
		return true
	default:
		return false
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, question.ErrInvalidInput):
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: err.Error()})
	case errors.Is(err, ErrUnreadableFile):
		writeJSON(w, r, http.StatusUnprocessableEntity, apiResponse{OK: false, Error: ErrUnreadableFile.Error()})
	case errors.Is(err, question.ErrQuestionNotFound):
		writeJSON(w, r, http.StatusNotFound, apiResponse{OK: false, Error: err.Error()})
	case errors.Is(err, ErrStoreDisabled), errors.Is(err, answersheet.ErrNoRasterizer):
		writeJSON(w, r, http.StatusServiceUnavailable, apiResponse{OK: false, Error: err.Error()})
	default:
		writeJSON(w, r, http.StatusInternalServerError, apiResponse{OK: false, Error: "internal error"})
	}
}

func writeFile(w http.ResponseWriter, file *File) {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, payload apiResponse) {
	if payload.OK {
		apiresp.WriteOK(w, r, code, payload.Data)
		return
	}
	apiresp.WriteError(w, r, code, payload.Error)
}
