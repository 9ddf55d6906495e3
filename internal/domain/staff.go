package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

type PayType string

const (
	PayTypeHourly   PayType = "HOURLY"
	PayTypeSalaried PayType = "SALARIED"
)

type Staff struct {
	ID                int64           `json:"id"`
	OrganizationID    int64           `json:"organizationID"`
	Username          string          `json:"username"`
	PasswordHash      string          `json:"-"`
	FullName          string          `json:"fullName"`
	Email             string          `json:"email"`
	Role              Role            `json:"role"`
	PayType           PayType         `json:"payType"`
	DefaultHourlyRate decimal.Decimal `json:"defaultHourlyRate"`
	MonthlySalary     decimal.Decimal `json:"monthlySalary"`
	HomeLocationID    *int64          `json:"homeLocationID"`
	IsActive          bool            `json:"isActive"`
	CreatedAt         time.Time       `json:"createdAt"`
	Version           int32           `json:"-"`
}

// CanManage reports whether the role may perform manager-gated operations
// (approvals, shift mutation, swap resolution, payroll reports).
func (r Role) CanManage() bool {
	return r == RoleManager || r == RoleAdmin
}
