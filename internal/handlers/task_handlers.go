package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"taskmanager/internal/handlers/dto"
	"taskmanager/internal/logger"
	"taskmanager/internal/models"
	"taskmanager/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService TaskService

	maxFileSize int64
	maxPerBatch int
}

func NewTaskHandler(taskService TaskService, maxFileSize int64, maxPerBatch int) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		maxFileSize: maxFileSize,
		maxPerBatch: maxPerBatch,
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: invalid JSON body", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.taskService.Create(r.Context(), caller.ID, toTaskInput(request))
	if err != nil {
		respondError(w, err, "create_task")
		return
	}

	responseWithJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var requests []dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&requests); err != nil {
		logger.Warn("HTTP: invalid JSON body", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "array of tasks required")
		return
	}

	inputs := make([]service.TaskInput, 0, len(requests))
	for _, req := range requests {
		inputs = append(inputs, toTaskInput(req))
	}

	created, err := h.taskService.BulkCreate(r.Context(), caller.ID, inputs)
	if err != nil {
		respondError(w, err, "bulk_create_tasks")
		return
	}

	responseWithJSON(w, http.StatusCreated, dto.BulkCreateResponse{Created: created})
}

func toTaskInput(req dto.CreateTaskRequest) service.TaskInput {
	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		AssignedTo:  req.AssignedTo,
	}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := models.TaskFilter{
		Search:   q.Get("search"),
		Status:   models.Status(q.Get("status")),
		Priority: models.Priority(q.Get("priority")),
		Tag:      q.Get("tag"),
	}

	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	// sort comes as "field:asc" or "field:desc"
	if sort := q.Get("sort"); sort != "" {
		field, dir, _ := strings.Cut(sort, ":")
		filter.SortBy = field
		filter.SortDesc = dir == "desc"
	}

	page, err := h.taskService.List(r.Context(), caller.ID, filter)
	if err != nil {
		respondError(w, err, "list_tasks")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.TaskListResponse{
		Tasks: page.Tasks,
		Meta: dto.ListMeta{
			Total: page.Total,
			Page:  page.Page,
			Limit: page.Limit,
		},
	})
}

func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	details, err := h.taskService.GetByID(r.Context(), caller.ID, id)
	if err != nil {
		respondError(w, err, "get_task")
		return
	}

	responseWithJSON(w, http.StatusOK, details)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	// decode by key presence so absent fields stay untouched while an
	// explicit null clears nullable ones
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		logger.Warn("HTTP: invalid JSON body", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	options, err := patchOptions(raw)
	if err != nil {
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.taskService.Update(r.Context(), caller.ID, id, options...)
	if err != nil {
		respondError(w, err, "update_task")
		return
	}

	responseWithJSON(w, http.StatusOK, task)
}

func patchOptions(raw map[string]json.RawMessage) ([]service.TaskOption, error) {
	options := []service.TaskOption{}

	decodeString := func(key string, build func(string) service.TaskOption) error {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return errInvalidField(key)
		}
		options = append(options, build(s))
		return nil
	}

	if err := decodeString("title", service.WithTitle); err != nil {
		return nil, err
	}
	if err := decodeString("description", service.WithDescription); err != nil {
		return nil, err
	}
	if err := decodeString("status", service.WithStatus); err != nil {
		return nil, err
	}
	if err := decodeString("priority", service.WithPriority); err != nil {
		return nil, err
	}

	if v, ok := raw["due_date"]; ok {
		var due *time.Time
		if err := json.Unmarshal(v, &due); err != nil {
			return nil, errInvalidField("due_date")
		}
		options = append(options, service.WithDueDate(due))
	}
	if v, ok := raw["tags"]; ok {
		var tags any
		if err := json.Unmarshal(v, &tags); err != nil {
			return nil, errInvalidField("tags")
		}
		options = append(options, service.WithTags(tags))
	}
	if v, ok := raw["assigned_to"]; ok {
		var assignee *uuid.UUID
		if err := json.Unmarshal(v, &assignee); err != nil {
			return nil, errInvalidField("assigned_to")
		}
		options = append(options, service.WithAssignee(assignee))
	}

	return options, nil
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), caller.ID, id); err != nil {
		respondError(w, err, "delete_task")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.MessageResponse{Message: "Task deleted"})
}

func (h *TaskHandler) AttachFiles(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, int64(h.maxPerBatch)*h.maxFileSize+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		logger.Warn("HTTP: invalid multipart body", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		responseWithError(w, http.StatusBadRequest, "no files uploaded (field 'files')")
		return
	}
	if len(headers) > h.maxPerBatch {
		responseWithError(w, http.StatusBadRequest,
			"too many files, at most "+strconv.Itoa(h.maxPerBatch)+" per request")
		return
	}

	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > h.maxFileSize {
			responseWithError(w, http.StatusBadRequest, "file "+fh.Filename+" exceeds the size limit")
			return
		}

		f, err := fh.Open()
		if err != nil {
			logger.Error("HTTP: cannot open uploaded file", err, zap.String("filename", fh.Filename))
			responseWithError(w, http.StatusBadRequest, "cannot read uploaded file")
			return
		}
		defer f.Close()

		uploads = append(uploads, service.Upload{
			OriginalName: fh.Filename,
			MimeType:     fh.Header.Get("Content-Type"),
			Reader:       f,
		})
	}

	saved, err := h.taskService.AttachFiles(r.Context(), caller.ID, id, uploads)
	if err != nil {
		respondError(w, err, "attach_files")
		return
	}

	responseWithJSON(w, http.StatusCreated, dto.FilesResponse{Files: saved})
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil || id == uuid.Nil {
		responseWithError(w, http.StatusBadRequest, "invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

func errInvalidField(field string) error {
	return &fieldError{field: field}
}

type fieldError struct {
	field string
}

func (e *fieldError) Error() string {
	return "invalid value for field '" + e.field + "'"
}
