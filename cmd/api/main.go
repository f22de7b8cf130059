package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/cache"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/events"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/handler"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/planner"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/solver"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/stats"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/validation"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/workshift"
	"golang.org/x/sync/errgroup"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	loc, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		logger.Error("无法加载时区", "timezone", cfg.Calendar.Timezone, "error", err)
		return
	}
	cal := calendar.New(loc)

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	publisher, closePublisher, err := events.Open(
		cfg.RabbitMQ.DSN,
		cfg.RabbitMQ.Queue,
		time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second,
		logger,
	)
	if err != nil {
		logger.Error("无法创建事件发布者", "error", err)
		return
	}
	defer closePublisher()

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("无法连接到 redis", "error", err)
		return
	}

	/**********************************************
	 * 创建缓存和耗时统计
	 **********************************************/
	caches := cache.NewManager(cache.Config{
		MaxSize: cfg.Cache.MaxSize,
		TTL:     time.Duration(cfg.Cache.TTL) * time.Millisecond,
	})
	collector := stats.NewCollector()
	reporter := cache.NewReporter(time.Duration(cfg.Cache.StatsInterval)*time.Second, logger, caches, collector)

	/**********************************************
	 * 创建排班服务
	 **********************************************/
	registry := domain.NewActionRegistry()
	// 先计时再缓存，命中缓存的调用不计入耗时统计
	shifts := workshift.NewService(cal, registry,
		workshift.WithTiming(collector, logger),
		workshift.WithCache(cache.Named[int](caches, "workshift.count")),
	)

	builder := scheduler.NewBuilder(shifts,
		scheduler.WithObjectiveWeight(cfg.Solver.ObjectiveWeight),
		scheduler.WithLogger(logger),
	)
	solverClient := solver.NewClient(cfg.Solver.URL, time.Duration(cfg.Solver.Timeout)*time.Second, logger)

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, handler.Dependencies{
		Calendar: cal,
		Registry: registry,
		Engine:   validation.NewEngine(shifts, logger, validation.WithTiming(collector)),
		Builder:  builder,
		Planner:  planner.New(builder, scheduler.NewApplier(shifts, logger), solverClient, publisher, logger),
		Locker:   handler.NewRedisLocker(rdb),
	})
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器和统计任务
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(quit)

	g.Go(func() error {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("无法启动服务器: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		reporter.Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("正在关闭服务器...")

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()

		return srv.Shutdown(ctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("服务器异常退出", slog.String("error", err.Error()))
		return
	}

	// 关闭前输出最后一次统计
	reporter.ReportOnce()
	logger.Info("服务器已成功关闭")
}
