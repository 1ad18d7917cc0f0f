package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"todolist/internal/config"
	"todolist/internal/database"
	"todolist/internal/logging"
	"todolist/internal/server"
	"todolist/internal/stats"
	"todolist/internal/todo"
)

func main() {
	// 主流程：加载配置、连接数据库、启动 HTTP 服务并等待退出信号
	cfg, err := config.Load(":8081")
	if err != nil {
		log.Fatal("config load failed", "err", err)
	}
	logger := logging.New(os.Stdout, "todo-api", cfg.LogLevel, cfg.LogFormat)

	repo, db, table, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("db connect failed", "err", err)
	}
	defer db.Close()

	handler := server.Routes(cfg, server.Deps{
		Todos:  todo.NewHandler(todo.NewService(repo), logger),
		Stats:  stats.NewHandler(stats.NewStore(db, table), logger),
		DB:     db,
		Logger: logger,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorLog:     logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	go func() {
		// 启动 HTTP 服务，非正常关闭才记录错误
		logger.Info("listening", "addr", cfg.Addr, "prefix", cfg.APIPrefix, "origin", cfg.ClientOrigin)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	// 监听系统信号，触发优雅退出
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}

// openStore 按 DATABASE_URL 选择 PostgreSQL 或 SQLite
func openStore(cfg config.Config, logger *log.Logger) (todo.Repository, *sql.DB, string, error) {
	if database.IsPostgres(cfg.DatabaseURL) {
		db, err := database.Open(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, "", err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := todo.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, "", err
		}
		return todo.NewPostgresStore(db), db, todo.PostgresTable, nil
	}

	gdb, err := database.OpenSQLite(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, "", err
	}
	db, err := gdb.DB()
	if err != nil {
		return nil, nil, "", err
	}
	store, err := todo.NewSQLiteStore(gdb)
	if err != nil {
		_ = db.Close()
		return nil, nil, "", err
	}
	return store, db, todo.SQLiteTable, nil
}
