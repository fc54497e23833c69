package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetanhq/payroll-backend-go/internal/config"
	"github.com/vetanhq/payroll-backend-go/internal/domain/attendance"
	"github.com/vetanhq/payroll-backend-go/internal/domain/employee"
	"github.com/vetanhq/payroll-backend-go/internal/domain/leave"
	"github.com/vetanhq/payroll-backend-go/internal/domain/loan"
	"github.com/vetanhq/payroll-backend-go/internal/domain/payroll"
	"github.com/vetanhq/payroll-backend-go/internal/pkg/compliance"
	"github.com/vetanhq/payroll-backend-go/internal/pkg/database"
	"github.com/vetanhq/payroll-backend-go/internal/repository/postgresql"
)

// Statutory constants for provident fund and state insurance. PF caps its
// wage base; ESI applies only under its gross ceiling. Employer shares are
// reported on the payroll record but never subtracted from net.
var (
	pfWageCeiling   = decimal.NewFromInt(15000)
	pfRate          = decimal.NewFromFloat(0.12)
	esiGrossCeiling = decimal.NewFromInt(21000)
	esiEmployeeRate = decimal.NewFromFloat(0.0075)
	esiEmployerRate = decimal.NewFromFloat(0.0325)

	standardShiftHours = decimal.NewFromInt(8)
)

type Service interface {
	// RunPayroll computes payroll for the period. Empty employeeIDs means
	// every active employee. One employee's failure never aborts the run.
	RunPayroll(ctx context.Context, tenantID string, req payroll.GenerateRequest) (payroll.RunSummary, error)

	// CalculateEmployeePayroll computes and persists one employee's payroll
	// for the period. Failures come back as a structured result, not an error.
	CalculateEmployeePayroll(ctx context.Context, tenantID, employeeID string, month, year int, runID string) payroll.Result

	// GetPayroll retrieves one stored record.
	GetPayroll(ctx context.Context, tenantID, employeeID string, month, year int) (payroll.RecordResponse, error)

	// ListPayrolls retrieves every stored record for the period.
	ListPayrolls(ctx context.Context, tenantID string, month, year int) ([]payroll.RecordResponse, error)
}

type ServiceImpl struct {
	// transact runs fn inside a database transaction carried in the context.
	transact       func(ctx context.Context, fn func(ctx context.Context) error) error
	payrollRepo    payroll.Repository
	employeeRepo   employee.Repository
	attendanceRepo attendance.Repository
	leaveRepo      leave.Repository
	loanRepo       loan.Repository
	cfg            config.PayrollConfig
	logger         *slog.Logger
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.Repository,
	employeeRepo employee.Repository,
	attendanceRepo attendance.Repository,
	leaveRepo leave.Repository,
	loanRepo loan.Repository,
	cfg config.PayrollConfig,
	logger *slog.Logger,
) Service {
	return &ServiceImpl{
		transact: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		loanRepo:       loanRepo,
		cfg:            cfg,
		logger:         logger,
	}
}

// RunPayroll implements Service.
func (s *ServiceImpl) RunPayroll(ctx context.Context, tenantID string, req payroll.GenerateRequest) (payroll.RunSummary, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunSummary{}, err
	}

	employees, err := s.employeeRepo.ListActive(ctx, tenantID, req.EmployeeIDs)
	if err != nil {
		return payroll.RunSummary{}, fmt.Errorf("failed to list employees for payroll run: %w", err)
	}

	summary := payroll.RunSummary{
		RunID: uuid.NewString(),
		Month: req.Month,
		Year:  req.Year,
	}

	for _, emp := range employees {
		result := s.CalculateEmployeePayroll(ctx, tenantID, emp.ID, req.Month, req.Year, summary.RunID)
		if result.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
			s.logger.Error("payroll calculation failed",
				slog.String("employee_id", emp.ID),
				slog.Int("month", req.Month),
				slog.Int("year", req.Year),
				slog.String("error", result.Error))
		}
		summary.Results = append(summary.Results, result)
	}

	return summary, nil
}

// CalculateEmployeePayroll implements Service.
func (s *ServiceImpl) CalculateEmployeePayroll(ctx context.Context, tenantID, employeeID string, month, year int, runID string) payroll.Result {
	result := payroll.Result{EmployeeID: employeeID}

	p, err := s.calculate(ctx, tenantID, employeeID, month, year, runID)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	stored, err := s.persist(ctx, p)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Payroll = &stored.record
	result.AssumedFullMonth = stored.record.AssumedFullMonth
	result.Metrics = &payroll.Metrics{
		TotalEarnings:   stored.record.GrossSalary,
		TotalDeductions: stored.record.TotalDeductions,
		NetSalary:       stored.record.NetSalary,
	}
	return result
}

type calculated struct {
	record    payroll.Payroll
	loanRows  []payroll.LoanDeductionRow
}

func (s *ServiceImpl) calculate(ctx context.Context, tenantID, employeeID string, month, year int, runID string) (calculated, error) {
	emp, err := s.employeeRepo.GetByID(ctx, tenantID, employeeID)
	if err != nil {
		return calculated{}, err
	}

	daysInMonth := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := time.Date(year, time.Month(month), daysInMonth, 0, 0, 0, 0, time.UTC)

	days, err := s.attendanceRepo.ListByEmployeeRange(ctx, tenantID, employeeID, monthStart, monthEnd)
	if err != nil {
		return calculated{}, err
	}
	leaves, err := s.leaveRepo.ListApprovedOverlapping(ctx, tenantID, employeeID, monthStart, monthEnd)
	if err != nil {
		return calculated{}, err
	}

	// Day counting. A month with no attendance rows at all is assumed fully
	// present; the record is flagged so downstream can treat it as suspect.
	effectiveDays, assumedFull := countEffectiveDays(days, leaves, monthStart, monthEnd, float64(daysInMonth))
	lopDays := math.Max(0, float64(daysInMonth)-effectiveDays)
	paidDays := float64(daysInMonth) - lopDays

	// Earnings, prorated by paid days and accumulated per canonical code.
	components, err := s.payrollRepo.GetEmployeeComponents(ctx, tenantID, employeeID, true)
	if err != nil {
		return calculated{}, err
	}

	prorate := func(monthly decimal.Decimal) decimal.Decimal {
		return monthly.Div(decimal.NewFromInt(int64(daysInMonth))).
			Mul(decimal.NewFromFloat(paidDays)).Round(2)
	}

	basicPaid := prorate(emp.BasicSalary)
	hraPaid := prorate(emp.HRA)
	allowancesPaid := prorate(emp.TotalAllowances)

	for _, c := range components {
		if c.Type != payroll.ComponentTypeEarning {
			continue
		}
		amount := prorate(c.MonthlyAmount)
		switch c.Code {
		case payroll.CodeBasic:
			basicPaid = basicPaid.Add(amount)
		case payroll.CodeHRA:
			hraPaid = hraPaid.Add(amount)
		default:
			allowancesPaid = allowancesPaid.Add(amount)
		}
	}

	gross := basicPaid.Add(hraPaid).Add(allowancesPaid)

	// Overtime: hours worked past the day's shift window, paid at the
	// hourly gross rate times the multiplier.
	var otHours float64
	otPay := decimal.Zero
	if emp.IsOTEnabled {
		otHours = overtimeHours(days)
		if otHours > 0 && paidDays > 0 {
			multiplier := s.cfg.DefaultOTMultiplier
			if emp.OTRateMultiplier != nil {
				multiplier = *emp.OTRateMultiplier
			}
			hourlyRate := gross.Div(decimal.NewFromFloat(paidDays).Mul(standardShiftHours))
			otPay = hourlyRate.Mul(decimal.NewFromFloat(otHours)).
				Mul(decimal.NewFromFloat(multiplier)).Round(2)
			gross = gross.Add(otPay)
		}
	}

	// Statutory deductions
	pfDeduction, employerPF := decimal.Zero, decimal.Zero
	if emp.IsPFEnabled {
		wageBase := decimal.Min(basicPaid, pfWageCeiling)
		pfDeduction = wageBase.Mul(pfRate).Round(0)
		employerPF = pfDeduction
	}

	esiDeduction, employerESI := decimal.Zero, decimal.Zero
	if emp.IsESIEnabled && gross.Cmp(esiGrossCeiling) <= 0 {
		esiDeduction = gross.Mul(esiEmployeeRate).Ceil()
		employerESI = gross.Mul(esiEmployerRate).Ceil()
	}

	ptDeduction := decimal.Zero
	if emp.IsPTEnabled {
		state, err := s.resolvePTState(ctx, tenantID, emp)
		if err != nil {
			return calculated{}, err
		}
		ptDeduction = compliance.AmountFor(state, gross, month)
	}

	// Loans: scheduled amount capped at the outstanding balance. Balances
	// are decremented by the external finalize step, never here, so the
	// same period can be recalculated safely.
	loans, err := s.loanRepo.ListActiveByEmployee(ctx, tenantID, employeeID, monthEnd)
	if err != nil {
		return calculated{}, err
	}
	loanDeduction := decimal.Zero
	var loanRows []payroll.LoanDeductionRow
	for _, l := range loans {
		if l.BalanceAmount.Sign() <= 0 {
			continue
		}
		amount := decimal.Min(l.MonthlyDeduction, l.BalanceAmount)
		loanDeduction = loanDeduction.Add(amount)
		loanRows = append(loanRows, payroll.LoanDeductionRow{LoanID: l.ID, Amount: amount})
	}

	tdsDeduction := decimal.Zero
	decl, err := s.payrollRepo.GetTDSDeclaration(ctx, tenantID, employeeID)
	switch {
	case err == nil:
		tdsDeduction = compliance.MonthlyWithholding(annualBreakup(emp), toComplianceDeclaration(decl))
	case errors.Is(err, payroll.ErrTDSDeclarationNotFound):
		// No declaration filed, no withholding.
	default:
		return calculated{}, err
	}

	totalDeductions := pfDeduction.Add(esiDeduction).Add(ptDeduction).Add(loanDeduction).Add(tdsDeduction)
	net := gross.Sub(totalDeductions).Round(0)

	record := payroll.Payroll{
		TenantID:          tenantID,
		EmployeeID:        employeeID,
		Month:             month,
		Year:              year,
		PayrollRunID:      &runID,
		TotalWorkingDays:  daysInMonth,
		ActualPresentDays: effectiveDays,
		LOPDays:           lopDays,
		PaidDays:          paidDays,
		BasicPaid:         basicPaid,
		HRAPaid:           hraPaid,
		AllowancesPaid:    allowancesPaid,
		OTHours:           otHours,
		OTPay:             otPay,
		GrossSalary:       gross,
		PFDeduction:       pfDeduction,
		ESIDeduction:      esiDeduction,
		PTDeduction:       ptDeduction,
		LoanDeduction:     loanDeduction,
		TDSDeduction:      tdsDeduction,
		TotalDeductions:   totalDeductions,
		NetSalary:         net,
		EmployerPF:        employerPF,
		EmployerESI:       employerESI,
		Status:            payroll.StatusGenerated,
		AssumedFullMonth:  assumedFull,
	}
	if runID == "" {
		record.PayrollRunID = nil
	}

	return calculated{record: record, loanRows: loanRows}, nil
}

// persist writes the payroll and its loan-deduction rows in one transaction.
func (s *ServiceImpl) persist(ctx context.Context, c calculated) (calculated, error) {
	err := s.transact(ctx, func(txCtx context.Context) error {
		stored, err := s.payrollRepo.Upsert(txCtx, c.record)
		if err != nil {
			return err
		}
		c.record = stored

		for i := range c.loanRows {
			c.loanRows[i].PayrollID = stored.ID
		}
		return s.payrollRepo.ReplaceLoanDeductions(txCtx, stored.ID, c.loanRows)
	})
	if err != nil {
		return calculated{}, err
	}
	return c, nil
}

// GetPayroll implements Service.
func (s *ServiceImpl) GetPayroll(ctx context.Context, tenantID, employeeID string, month, year int) (payroll.RecordResponse, error) {
	p, err := s.payrollRepo.GetByEmployeePeriod(ctx, tenantID, employeeID, month, year)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	return toRecordResponse(p), nil
}

// ListPayrolls implements Service.
func (s *ServiceImpl) ListPayrolls(ctx context.Context, tenantID string, month, year int) ([]payroll.RecordResponse, error) {
	records, err := s.payrollRepo.ListByPeriod(ctx, tenantID, month, year)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.RecordResponse, 0, len(records))
	for _, p := range records {
		responses = append(responses, toRecordResponse(p))
	}
	return responses, nil
}

// resolvePTState walks location state, branch location state, then the
// location's city column. Some tenants historically stored the state name in
// the city column, hence the city fallback; when nothing resolves to a known
// state the configured default applies.
func (s *ServiceImpl) resolvePTState(ctx context.Context, tenantID string, emp employee.Employee) (string, error) {
	var loc *employee.Location
	if emp.LocationID != nil {
		l, err := s.employeeRepo.GetLocation(ctx, tenantID, *emp.LocationID)
		if err != nil && !errors.Is(err, employee.ErrLocationNotFound) {
			return "", err
		}
		if err == nil {
			loc = &l
		}
	}

	if loc != nil && loc.State != nil && compliance.NormalizeState(*loc.State) != "" {
		return *loc.State, nil
	}

	if emp.BranchID != nil {
		b, err := s.employeeRepo.GetBranch(ctx, tenantID, *emp.BranchID)
		if err != nil && !errors.Is(err, employee.ErrBranchNotFound) {
			return "", err
		}
		if err == nil && b.LocationID != nil {
			bl, err := s.employeeRepo.GetLocation(ctx, tenantID, *b.LocationID)
			if err != nil && !errors.Is(err, employee.ErrLocationNotFound) {
				return "", err
			}
			if err == nil && bl.State != nil && compliance.NormalizeState(*bl.State) != "" {
				return *bl.State, nil
			}
		}
	}

	if loc != nil && loc.City != nil && compliance.NormalizeState(*loc.City) != "" {
		return *loc.City, nil
	}

	return s.cfg.DefaultPTState, nil
}

func countEffectiveDays(days []attendance.Day, leaves []leave.Entry, monthStart, monthEnd time.Time, daysInMonth float64) (float64, bool) {
	// No attendance rows at all means the data never arrived, leave entries or
	// not; assume the full month rather than charging it as loss of pay.
	if len(days) == 0 {
		return daysInMonth, true
	}

	credited := make(map[string]float64, len(days))
	for _, d := range days {
		key := d.Date.Format("2006-01-02")
		switch d.Status {
		case attendance.StatusPresent, attendance.StatusWeeklyOff, attendance.StatusHoliday, attendance.StatusLeavePaid:
			credited[key] = 1
		case attendance.StatusHalfDay:
			credited[key] = 0.5
		default:
			credited[key] = 0
		}
	}

	// Approved paid leave fills days that have no attendance row.
	for _, l := range leaves {
		if !l.IsPaid {
			continue
		}
		from := maxTime(l.StartDate, monthStart)
		to := minTime(l.EndDate, monthEnd)
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			key := d.Format("2006-01-02")
			if _, ok := credited[key]; !ok {
				credited[key] = 1
			}
		}
	}

	var total float64
	for _, v := range credited {
		total += v
	}
	return total, false
}

// overtimeHours sums hours worked beyond the day's shift window. Days without
// a shift window contribute nothing.
func overtimeHours(days []attendance.Day) float64 {
	var total float64
	for _, d := range days {
		if d.ShiftStart == nil || d.ShiftEnd == nil || d.WorkingHours <= 0 {
			continue
		}
		shiftHours := d.ShiftEnd.Sub(*d.ShiftStart).Hours()
		if excess := d.WorkingHours - shiftHours; excess > 0 {
			total += excess
		}
	}
	return math.Round(total*100) / 100
}

func annualBreakup(emp employee.Employee) compliance.SalaryBreakup {
	twelve := decimal.NewFromInt(12)
	return compliance.SalaryBreakup{
		BasicAnnual:      emp.BasicSalary.Mul(twelve),
		HRAAnnual:        emp.HRA.Mul(twelve),
		AllowancesAnnual: emp.TotalAllowances.Mul(twelve),
	}
}

func toComplianceDeclaration(d payroll.TDSDeclaration) compliance.Declaration {
	regime := compliance.RegimeOld
	if d.TaxRegime == payroll.RegimeNew {
		regime = compliance.RegimeNew
	}
	return compliance.Declaration{
		PPF:               d.PPF,
		ELSS:              d.ELSS,
		LifeInsurance:     d.LifeInsurance,
		HomeLoanPrincipal: d.HomeLoanPrincipal,
		TuitionFees:       d.TuitionFees,
		NSC:               d.NSC,
		Section80D:        d.Section80D,
		Section80E:        d.Section80E,
		Section80G:        d.Section80G,
		Section24:         d.Section24,
		RentPaid:          d.RentPaid,
		Regime:            regime,
	}
}

func toRecordResponse(p payroll.Payroll) payroll.RecordResponse {
	return payroll.RecordResponse{
		EmployeeID:        p.EmployeeID,
		Month:             p.Month,
		Year:              p.Year,
		TotalWorkingDays:  p.TotalWorkingDays,
		ActualPresentDays: p.ActualPresentDays,
		LOPDays:           p.LOPDays,
		PaidDays:          p.PaidDays,
		BasicPaid:         p.BasicPaid,
		HRAPaid:           p.HRAPaid,
		AllowancesPaid:    p.AllowancesPaid,
		OTHours:           p.OTHours,
		OTPay:             p.OTPay,
		GrossSalary:       p.GrossSalary,
		PFDeduction:       p.PFDeduction,
		ESIDeduction:      p.ESIDeduction,
		PTDeduction:       p.PTDeduction,
		LoanDeduction:     p.LoanDeduction,
		TDSDeduction:      p.TDSDeduction,
		TotalDeductions:   p.TotalDeductions,
		NetSalary:         p.NetSalary,
		EmployerPF:        p.EmployerPF,
		EmployerESI:       p.EmployerESI,
		Status:            string(p.Status),
		AssumedFullMonth:  p.AssumedFullMonth,
		Lines:             p.Lines(),
	}
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
