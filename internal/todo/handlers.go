package todo

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	service *Service
	logger  *log.Logger
}

func NewHandler(service *Service, logger *log.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Routes 返回 /todos 子路由，由上层挂载到 API 前缀下
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.handleListTodos)
	r.Post("/", h.handleCreateTodo)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.handleGetTodo)
		r.Patch("/", h.handleUpdateTodo)
		r.Delete("/", h.handleDeleteTodo)
	})

	return r
}

func (h *Handler) handleListTodos(w http.ResponseWriter, r *http.Request) {
	// 列表查询，按 id 倒序
	items, err := h.service.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "list", err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "get", err, "id", id)
		return
	}
	h.writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var input createTodoRequest
	if err := h.decodeJSON(w, r, &input); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := h.service.Create(r.Context(), input.Title)
	if err != nil {
		h.writeServiceError(w, r, "create", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, todo)
}

func (h *Handler) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	// 部分字段更新
	id, err := readIDParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch Patch
	if err := h.decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		h.writeServiceError(w, r, "update", err, "id", id)
		return
	}
	h.writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "delete", err, "id", id)
		return
	}
	h.writeJSON(w, http.StatusOK, deleteTodoResponse{Success: true})
}

// writeServiceError 把错误归类为 400/404/500，500 的原因只写日志
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error, keyvals ...any) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		h.writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, ErrNotFound):
		h.writeError(w, http.StatusNotFound, notFoundMessage)
	default:
		fields := append([]any{"op", op, "request_id", middleware.GetReqID(r.Context())}, keyvals...)
		fields = append(fields, pgErrorFields(err)...)
		fields = append(fields, "err", err)
		h.logger.Error("todo request failed", fields...)
		h.writeError(w, http.StatusInternalServerError, internalErrorMessage)
	}
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	// 限制请求体大小；空请求体按 {} 处理
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("json encode error", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func readIDParam(r *http.Request) (int64, error) {
	// 解析并校验路径参数
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
