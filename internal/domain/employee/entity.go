package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is consumed by the engines, never owned: the employee CRUD module
// lives outside this core. Only the fields the attendance and payroll
// calculations read are modeled.
type Employee struct {
	ID               string
	TenantID         string
	EmployeeCode     string
	FirstName        string
	LastName         string
	DeviceUserID     *string
	SourceEmployeeID *string
	IsActive         bool

	// Flat monthly salary structure
	BasicSalary     decimal.Decimal
	HRA             decimal.Decimal
	TotalAllowances decimal.Decimal

	// Statutory feature flags
	IsPFEnabled  bool
	IsESIEnabled bool
	IsPTEnabled  bool
	IsOTEnabled  bool

	// Overtime multiplier override; engine default applies when nil
	OTRateMultiplier *float64

	LocationID *string
	BranchID   *string

	HireDate  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location carries the state used for professional-tax slab resolution. Some
// tenants historically stored the state name in the city column, hence the
// resolution fallback in the payroll engine.
type Location struct {
	ID    string
	Name  string
	State *string
	City  *string
}

// Branch points at its own location for employees attached to a branch
// rather than directly to a location.
type Branch struct {
	ID         string
	Name       string
	LocationID *string
}
