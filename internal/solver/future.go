package solver

import (
	"context"
)

// Future 保存一次异步调用的结果，结果只会被写入一次
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Async 在新的 goroutine 中执行 fn
func Async[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn()
	}()
	return f
}

func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait 等待结果。ctx 结束时只是不再等待，调用本身不会被取消
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
