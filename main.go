package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"picvote-server/internal/config"
	"picvote-server/internal/consts"
	"picvote-server/internal/db"
	"picvote-server/internal/di"
	"picvote-server/internal/logger"
	"picvote-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "config", "配置文件目录")
	createAdmin := flag.Bool("create-admin", false, "创建或提升管理员账号后退出")
	username := flag.String("username", "", "管理员用户名（配合 -create-admin）")
	password := flag.String("password", "", "管理员密码（配合 -create-admin）")
	exportRoutes := flag.Bool("export", false, "导出路由到 routes.json 并退出")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 加载配置失败: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Server.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log, options{
		createAdmin:  *createAdmin,
		username:     *username,
		password:     *password,
		exportRoutes: *exportRoutes,
	}); err != nil {
		log.Fatal("服务运行失败", zap.Error(err))
	}
}

type options struct {
	createAdmin  bool
	username     string
	password     string
	exportRoutes bool
}

func run(cfg *config.Config, log *zap.Logger, opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if strings.EqualFold(cfg.Upload.Driver, "local") || cfg.Upload.Driver == "" {
		if err := checkSecurePath(cfg.Upload.Path); err != nil {
			return err
		}
	}

	gdb, err := db.Open(cfg, log)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	if err := utils.RegisterBindingRules(); err != nil {
		return err
	}

	app, err := di.InitializeApplication(ctx, cfg, gdb, log)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if err := app.Services.Settings.Initialize(ctx); err != nil {
		return fmt.Errorf("初始化系统配置失败: %w", err)
	}

	if opts.createAdmin {
		created, err := app.Services.Users.EnsureAdmin(ctx, opts.username, opts.password)
		if err != nil {
			return fmt.Errorf("创建管理员失败: %w", err)
		}
		if created {
			log.Info("管理员已创建", zap.String("username", opts.username))
		} else {
			log.Info("已有用户已提升为管理员", zap.String("username", opts.username))
		}
		return nil
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	if err := app.Router.Init(r); err != nil {
		return err
	}

	if opts.exportRoutes {
		return exportAPI(r, "routes.json")
	}

	printWelcomeMessage(cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("服务启动成功", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("服务启动失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// 等待中断信号关闭服务器（设置 5 秒的超时时间）
	log.Info("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("服务强制关闭: %w", err)
	}
	log.Info("服务已退出")
	return nil
}

func printWelcomeMessage(cfg *config.Config) {
	fmt.Println()
	fmt.Println(" ┌───────────────────────────────────────────────────────┐")
	fmt.Printf(" │   🚀  %s\n", consts.ApplicationName)
	fmt.Println(" ├───────────────────────────────────────────────────────┤")
	fmt.Printf(" │   📦  版本     : %s\n", consts.ApplicationVersion)
	fmt.Printf(" │   🗄️  数据库   : %s\n", cfg.Database.Type)
	fmt.Printf(" │   🖼️  存储     : %s\n", cfg.Upload.Driver)
	fmt.Printf(" │   🔥  服务端口 : %s\n", cfg.Server.Port)
	fmt.Println(" └───────────────────────────────────────────────────────┘")
	fmt.Println()
}

type routeInfo struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Handler string `json:"handler"`
}

func exportAPI(r *gin.Engine, filename string) error {
	var exportList []routeInfo
	for _, route := range r.Routes() {
		exportList = append(exportList, routeInfo{
			Method:  route.Method,
			Path:    route.Path,
			Handler: route.Handler,
		})
	}

	file, err := json.MarshalIndent(exportList, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, file, 0644); err != nil {
		return fmt.Errorf("导出路由失败: %w", err)
	}
	fmt.Printf("✅ 路由已成功导出到 %s\n", filename)
	return nil
}

// 只有位于这些目录下的路径才被允许作为上传目录
var allowedUploadDirs = []string{
	"uploads",
	"media",
	"public",
	"static",
	"tmp",
}

// checkSecurePath 防止把上传目录配置成项目根目录或源码目录，避免源码经静态路由泄露
func checkSecurePath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("路径解析失败: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("无法获取当前工作目录: %w", err)
	}

	if absPath == cwd {
		return fmt.Errorf("安全配置错误: 上传目录 '%s' 不能设置为项目根目录", path)
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		// 项目目录之外的路径不做限制
		return nil
	}

	firstComponent := strings.Split(filepath.ToSlash(rel), "/")[0]
	for _, allowed := range allowedUploadDirs {
		if strings.EqualFold(firstComponent, allowed) {
			return nil
		}
	}
	return fmt.Errorf("安全配置错误: 上传目录 '%s' 必须位于项目根目录下的安全子目录中 (如 %v)", path, allowedUploadDirs)
}
