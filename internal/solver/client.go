package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/scheduler"
)

// ErrUnavailable 表示求解器无法访问或返回了非 2xx 状态码
var ErrUnavailable = errors.New("求解器不可用")

type Client struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Solve 把模型发送给求解器，失败时不重试
func (c *Client) Solve(ctx context.Context, m *scheduler.Model) ([]scheduler.Assignment, error) {
	body, err := json.Marshal(NewRequest(m))
	if err != nil {
		return nil, fmt.Errorf("无法序列化求解请求: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("无法创建求解请求: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: 状态码 %d: %s", ErrUnavailable, resp.StatusCode, bytes.TrimSpace(message))
	}

	var assignments []scheduler.Assignment
	if err := json.NewDecoder(resp.Body).Decode(&assignments); err != nil {
		return nil, fmt.Errorf("%w: 无法解析求解结果: %v", domain.ErrSolverContract, err)
	}

	c.logger.Info("求解完成",
		"variables", len(m.Variables()),
		"assignments", len(assignments),
		"duration", time.Since(start).String(),
	)

	return assignments, nil
}

// SolveAsync 立即返回，调用方通过 Future 获取结果。
// 请求不随 ctx 取消，只受客户端超时限制
func (c *Client) SolveAsync(ctx context.Context, m *scheduler.Model) *Future[[]scheduler.Assignment] {
	ctx = context.WithoutCancel(ctx)
	return Async(func() ([]scheduler.Assignment, error) {
		return c.Solve(ctx, m)
	})
}
