package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yuqie6/StudyPath/internal/bootstrap"
	"github.com/yuqie6/StudyPath/internal/handler"
	"github.com/yuqie6/StudyPath/internal/pkg/config"
	"github.com/yuqie6/StudyPath/internal/server"
)

func main() {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "studypath-server",
		Short: "StudyPath - 学习辅助平台服务端",
		Long:  `StudyPath 服务端：课程推荐、错题本、学习计划与后台管理。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfgFile)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")

	rootCmd.AddCommand(configInitCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cfgFile string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfgFile == "" {
		if p, err := config.DefaultConfigPath(); err == nil {
			if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
				_ = config.WriteFile(p, config.Default())
			}
			cfgFile = p
		}
	}

	core, err := bootstrap.NewCore(cfgFile)
	if err != nil {
		slog.Error("启动失败", "error", err)
		return err
	}
	defer core.Close()

	slog.Info("StudyPath 启动中...", "name", core.Cfg.App.Name, "version", core.Cfg.App.Version)

	api := handler.NewAPI(
		core.Cfg,
		core.Hub,
		core.Services.Auth,
		core.Services.Categories,
		core.Services.Courses,
		core.Services.Questions,
		core.Services.Plans,
		core.Services.WrongBook,
		core.Services.Recommend,
		core.Services.Admin,
	)

	srv, err := server.Start(ctx, api, server.Options{
		ListenAddr: core.Cfg.Server.ListenAddr,
		UploadDir:  core.Cfg.Server.UploadDir,
	})
	if err != nil {
		slog.Error("启动 HTTP 服务失败", "error", err)
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	slog.Info("收到系统退出信号，正在关闭")
	if err := srv.Shutdown(context.Background()); err != nil {
		slog.Warn("关闭 HTTP 服务出错", "error", err)
	}
	return nil
}

// configInitCmd 生成默认配置文件
func configInitCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "config-init",
		Short: "在指定路径生成默认配置文件",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := out
			if path == "" {
				p, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("配置文件已存在: %s", path)
			}
			if err := config.WriteFile(path, config.Default()); err != nil {
				return err
			}
			fmt.Println("已生成配置文件:", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "输出路径（默认可执行文件旁 config/config.yaml）")
	return cmd
}
