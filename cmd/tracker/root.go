package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/employee-tracker/internal/config"
	"github.com/employee-tracker/internal/console"
	"github.com/employee-tracker/internal/database"
	"github.com/employee-tracker/internal/prompt"
	"github.com/employee-tracker/internal/repository"
	"github.com/employee-tracker/internal/service"
	"github.com/employee-tracker/internal/session"
	"github.com/employee-tracker/internal/store"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tracker",
		Short: "Employee Tracker - manage departments, roles and employees",
		Long: `Employee Tracker is an interactive console for a small company database.

It connects using DB_* environment variables (or a .env file), prints a menu
and lets you view, add, update and delete departments, roles and employees.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), os.Stdin, cmd.OutOrStdout())
		},
	}
}

func run(ctx context.Context, stdin *os.File, stdout io.Writer) error {
	cfg, err := config.Load(config.EnvFile())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database, cfg.Log.SlogLevel())
	if err != nil {
		return err
	}
	st := store.New(db)
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	if err := st.Ping(ctx); err != nil {
		return err
	}

	deptRepo := repository.NewDepartmentRepository(st)
	roleRepo := repository.NewRoleRepository(st)
	empRepo := repository.NewEmployeeRepository(st)

	svcs := session.Services{
		Departments: service.NewDepartmentService(deptRepo),
		Roles:       service.NewRoleService(roleRepo, deptRepo),
		Employees:   service.NewEmployeeService(empRepo, roleRepo, deptRepo),
	}

	var p prompt.Prompter = prompt.NewLine(stdin, stdout)
	if isatty.IsTerminal(stdin.Fd()) || isatty.IsCygwinTerminal(stdin.Fd()) {
		p = prompt.NewTerminal(stdin, stdout)
	}

	console.New(stdout).Banner("Employee Tracker")
	logger.Info("session started", slog.String("driver", cfg.Database.Driver))

	return session.New(svcs, p, stdout, logger).Run(ctx)
}
