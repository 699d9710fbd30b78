package dto

import "github.com/employee-tracker/internal/domain"

// CreateDepartmentRequest - add a department
type CreateDepartmentRequest struct {
	Name string `validate:"required,min=1,max=200"`
}

// CreateRoleRequest - add a role to an existing department
type CreateRoleRequest struct {
	Title        string       `validate:"required,min=1,max=200"`
	Salary       domain.Money `validate:"gte=0"`
	DepartmentID int64        `validate:"required,min=1"`
}

// CreateEmployeeRequest - add an employee; role and manager are optional
type CreateEmployeeRequest struct {
	FirstName string `validate:"required,min=1,max=100"`
	LastName  string `validate:"required,min=1,max=100"`
	RoleID    *int64 `validate:"omitempty,min=1"`
	ManagerID *int64 `validate:"omitempty,min=1"`
}

// AssignManagerRequest - set or clear (ManagerID == nil) an employee's manager
type AssignManagerRequest struct {
	DepartmentID int64  `validate:"required,min=1"`
	EmployeeID   int64  `validate:"required,min=1"`
	ManagerID    *int64 `validate:"omitempty,min=1"`
}

// UpdateEmployeeRoleRequest - move an employee to another role
type UpdateEmployeeRoleRequest struct {
	EmployeeID int64 `validate:"required,min=1"`
	RoleID     int64 `validate:"required,min=1"`
}
