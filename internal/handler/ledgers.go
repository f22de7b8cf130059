package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/solver"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "服务正常", nil)
}

func (h *Handler) ValidateLedger(w http.ResponseWriter, r *http.Request) {
	l := r.Context().Value(LedgerCtxKey).(*domain.Ledger)

	report, err := h.engine.Report(l)
	if err != nil {
		h.ledgerError(w, r, err)
		return
	}

	h.successResponse(w, r, "校验完成", report)
}

func (h *Handler) ExportModel(w http.ResponseWriter, r *http.Request) {
	l := r.Context().Value(LedgerCtxKey).(*domain.Ledger)

	m, err := h.builder.Build(l)
	if err != nil {
		h.ledgerError(w, r, err)
		return
	}

	h.successResponse(w, r, "模型构建成功", solver.NewRequest(m))
}

func (h *Handler) OptimizeLedger(w http.ResponseWriter, r *http.Request) {
	l := r.Context().Value(LedgerCtxKey).(*domain.Ledger)

	// 同一个月份同时只允许一次优化
	key := fmt.Sprintf("optimize_lock_%s", l.Date.Format("2006-01"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	acquired, err := h.locker.Acquire(ctx, key, time.Duration(h.config.Redis.LockExpiration)*time.Second)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !acquired {
		h.errorResponse(w, r, "该月份正在优化中，请稍后再试")
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
		defer cancel()
		if err := h.locker.Release(ctx, key); err != nil {
			slog.Error("无法释放优化锁", "key", key, "error", err)
		}
	}()

	outcome, err := h.planner.Optimize(r.Context(), l)
	if err != nil {
		h.ledgerError(w, r, err)
		return
	}

	h.successResponse(w, r, "优化完成", struct {
		Ledger  *domain.LedgerDocument `json:"ledger"`
		Changed int                    `json:"changed"`
	}{
		Ledger:  outcome.Ledger.ToDocument(h.calendar),
		Changed: outcome.Changed,
	})
}
