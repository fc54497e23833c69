package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/httplog/v3"

	"github.com/vetanhq/payroll-backend-go/internal/config"
	appHTTP "github.com/vetanhq/payroll-backend-go/internal/handler/http"
	"github.com/vetanhq/payroll-backend-go/internal/pkg/database"
	"github.com/vetanhq/payroll-backend-go/internal/repository/postgresql"
	attendanceService "github.com/vetanhq/payroll-backend-go/internal/service/attendance"
	payrollService "github.com/vetanhq/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       logLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "vetanhq-payroll"),
		slog.String("env", cfg.App.Env),
	)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	loanRepo := postgresql.NewLoanRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	identityCache := attendanceService.NewIdentityCache()
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, punchRepo, employeeRepo, identityCache, logger)
	payrollSvc := payrollService.NewPayrollService(db, payrollRepo, employeeRepo, attendanceRepo, leaveRepo, loanRepo, cfg.Payroll, logger)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(logger, attendanceHandler, payrollHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
