package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sentra-erp/payroll-backend-go/internal/config"
	appHTTP "github.com/sentra-erp/payroll-backend-go/internal/handler/http"
	"github.com/sentra-erp/payroll-backend-go/internal/pkg/database"
	"github.com/sentra-erp/payroll-backend-go/internal/repository/postgresql"
	payrollService "github.com/sentra-erp/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	sheetRepo := postgresql.NewSheetRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)
	paymentRepo := postgresql.NewPaymentStatusRepository(db)

	txRunner := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return postgresql.WithTransaction(ctx, db, fn)
	}
	sheetEditor := payrollService.NewSheetEditor(txRunner, sheetRepo, employeeRepo, paymentRepo)
	payrollSvc := payrollService.NewPayrollService(
		employeeRepo,
		attendanceRepo,
		sheetRepo,
		advanceRepo,
		paymentRepo,
		sheetEditor,
	)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(payrollHandler, cfg.App.AllowedOrigins, cfg.App.Env)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
