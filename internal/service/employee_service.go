package service

import (
	"context"
	"strings"

	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/dto"
	"github.com/employee-tracker/internal/repository"
)

// EmployeeService holds the rules for employees and the manager relationship.
type EmployeeService interface {
	Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	ListViews(ctx context.Context) ([]domain.EmployeeView, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]domain.EmployeeView, error)
	ListByManager(ctx context.Context, managerID int64) ([]domain.EmployeeView, error)
	ListManagers(ctx context.Context) ([]domain.ManagerSummary, error)
	AssignManager(ctx context.Context, req *dto.AssignManagerRequest) (*domain.Employee, error)
	UpdateRole(ctx context.Context, req *dto.UpdateEmployeeRoleRequest) (*domain.Employee, error)
	Promote(ctx context.Context, req *dto.UpdateEmployeeRoleRequest) (*domain.Employee, error)
	Reports(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type employeeService struct {
	empRepo  repository.EmployeeRepository
	roleRepo repository.RoleRepository
	deptRepo repository.DepartmentRepository
}

// NewEmployeeService creates the employee service.
func NewEmployeeService(
	empRepo repository.EmployeeRepository,
	roleRepo repository.RoleRepository,
	deptRepo repository.DepartmentRepository,
) EmployeeService {
	return &employeeService{
		empRepo:  empRepo,
		roleRepo: roleRepo,
		deptRepo: deptRepo,
	}
}

func (s *employeeService) Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*domain.Employee, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := Validate(req); err != nil {
		return nil, err
	}

	if req.RoleID != nil {
		if _, err := s.roleRepo.GetByID(ctx, *req.RoleID); err != nil {
			return nil, err
		}
	}
	if req.ManagerID != nil {
		if _, err := s.empRepo.GetByID(ctx, *req.ManagerID); err != nil {
			return nil, err
		}
	}

	emp := &domain.Employee{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleID:    req.RoleID,
		ManagerID: req.ManagerID,
	}
	if err := s.empRepo.Create(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *employeeService) List(ctx context.Context) ([]domain.Employee, error) {
	return s.empRepo.List(ctx)
}

func (s *employeeService) ListViews(ctx context.Context) ([]domain.EmployeeView, error) {
	return s.empRepo.ListViews(ctx)
}

func (s *employeeService) ListByDepartment(ctx context.Context, departmentID int64) ([]domain.EmployeeView, error) {
	if _, err := s.deptRepo.GetByID(ctx, departmentID); err != nil {
		return nil, err
	}
	return s.empRepo.ListByDepartment(ctx, departmentID)
}

func (s *employeeService) ListByManager(ctx context.Context, managerID int64) ([]domain.EmployeeView, error) {
	if _, err := s.empRepo.GetByID(ctx, managerID); err != nil {
		return nil, err
	}
	return s.empRepo.ListByManager(ctx, managerID)
}

func (s *employeeService) ListManagers(ctx context.Context) ([]domain.ManagerSummary, error) {
	return s.empRepo.ListManagers(ctx)
}

// AssignManager sets or clears the employee's manager. The employee must hold
// a role in the chosen department, and the new manager may not already report
// to the employee.
func (s *employeeService) AssignManager(ctx context.Context, req *dto.AssignManagerRequest) (*domain.Employee, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	emp, err := s.empRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	inDept, err := s.empRepo.InDepartment(ctx, emp.ID, req.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !inDept {
		return nil, domain.ErrManagerOutsideDept
	}

	if req.ManagerID != nil {
		managerID := *req.ManagerID

		if managerID == emp.ID {
			return nil, domain.ErrSelfManagement
		}
		if _, err := s.empRepo.GetByID(ctx, managerID); err != nil {
			return nil, err
		}

		cyclic, err := s.empRepo.ReportsTo(ctx, managerID, emp.ID)
		if err != nil {
			return nil, err
		}
		if cyclic {
			return nil, domain.ErrManagerCycle
		}
	}

	if err := s.empRepo.UpdateManager(ctx, emp.ID, req.ManagerID); err != nil {
		return nil, err
	}
	emp.ManagerID = req.ManagerID
	return emp, nil
}

func (s *employeeService) UpdateRole(ctx context.Context, req *dto.UpdateEmployeeRoleRequest) (*domain.Employee, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	emp, err := s.empRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.roleRepo.GetByID(ctx, req.RoleID); err != nil {
		return nil, err
	}

	if err := s.empRepo.UpdateRole(ctx, emp.ID, req.RoleID); err != nil {
		return nil, err
	}
	emp.RoleID = &req.RoleID
	return emp, nil
}

// Promote moves the employee into a managerial role.
func (s *employeeService) Promote(ctx context.Context, req *dto.UpdateEmployeeRoleRequest) (*domain.Employee, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	role, err := s.roleRepo.GetByID(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	if !IsManagerRole(role) {
		return nil, domain.ErrNotManagerRole
	}

	return s.UpdateRole(ctx, req)
}

func (s *employeeService) Reports(ctx context.Context, id int64) (int64, error) {
	if _, err := s.empRepo.GetByID(ctx, id); err != nil {
		return 0, err
	}
	return s.empRepo.CountReports(ctx, id)
}

// Delete removes the employee; their reports are left without a manager.
func (s *employeeService) Delete(ctx context.Context, id int64) (int64, error) {
	if _, err := s.empRepo.GetByID(ctx, id); err != nil {
		return 0, err
	}
	return s.empRepo.DeleteDetaching(ctx, id)
}

// IsManagerRole reports whether the role's title marks it as managerial.
func IsManagerRole(role *domain.Role) bool {
	return strings.Contains(strings.ToLower(role.Title), ManagerTitleFragment)
}
