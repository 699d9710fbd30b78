package domain

import "errors"

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrDepartmentHasRoles = errors.New("department still has roles")
	ErrSelfManagement     = errors.New("employee cannot be their own manager")
	ErrManagerCycle       = errors.New("assigning this manager would create a reporting cycle")
	ErrManagerOutsideDept = errors.New("employee does not hold a role in the selected department")
	ErrNotManagerRole     = errors.New("role is not a manager role")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidMoney       = errors.New("invalid amount")
	ErrNegativeMoney      = errors.New("amount cannot be negative")
	ErrNothingToDo        = errors.New("nothing to do")
)
