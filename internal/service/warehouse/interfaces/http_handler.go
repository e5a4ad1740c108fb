// internal/service/warehouse/interfaces/http_handler.go
package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"depot/internal/pkg/logger"
	"depot/internal/pkg/metrics"
	"depot/internal/service/warehouse/application"
	"depot/internal/service/warehouse/domain"
)

// WarehouseHandler 封装了 warehouse 服务的 HTTP 处理器
type WarehouseHandler struct {
	service *application.AllocationService
}

// NewWarehouseHandler 创建一个新的 HTTP 处理器实例
func NewWarehouseHandler(service *application.AllocationService) *WarehouseHandler {
	return &WarehouseHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *WarehouseHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/api/warehouse/add-product", h.withRequestID(h.addProduct))
	mux.HandleFunc("/api/warehouse/add-product-via-procedure", h.withRequestID(h.addProductViaProcedure))
}

// addProduct 按配置选择的策略执行入库
func (h *WarehouseHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	h.handleAllocate(w, r, h.service.Allocate)
}

// addProductViaProcedure 显式走数据库内原子例程
func (h *WarehouseHandler) addProductViaProcedure(w http.ResponseWriter, r *http.Request) {
	h.handleAllocate(w, r, h.service.AllocateViaProcedure)
}

type allocateFunc func(ctx context.Context, req *application.AllocateRequest) (*application.AllocateResponse, error)

func (h *WarehouseHandler) handleAllocate(w http.ResponseWriter, r *http.Request, allocate allocateFunc) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req application.AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body", false)
		return
	}

	resp, err := allocate(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// withRequestID 为每个请求生成 request id，并注入带该字段的 logger
func (h *WarehouseHandler) withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-Id", requestID)

		ctx := logger.WithContext(r.Context())
		l := logger.Ctx(ctx).With().Str("request_id", requestID).Logger()
		ctx = l.WithContext(ctx)

		next(w, r.WithContext(ctx))
	}
}

// errorResponse 是对外稳定的错误信号：code 用于程序判断，
// retryable 告知调用方是否可以安全地整体重试。
type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch application.Classify(err) {
	case "invalid_request":
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error(), false)
	case "not_found":
		writeError(w, http.StatusNotFound, "not_found", err.Error(), false)
	default:
		writeError(w, http.StatusInternalServerError, "storage_failure", "internal failure", domain.IsRetryable(err))
	}
}

func writeError(w http.ResponseWriter, status int, code, message string, retryable bool) {
	writeJSON(w, status, errorResponse{Code: code, Message: message, Retryable: retryable})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
