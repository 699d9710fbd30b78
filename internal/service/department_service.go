package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/dto"
	"github.com/employee-tracker/internal/repository"
	"github.com/employee-tracker/internal/store"
)

// DepartmentService holds the rules for departments and their budget.
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
	Table(ctx context.Context) (*store.Result, error)
	Delete(ctx context.Context, id int64) error
	Budget(ctx context.Context, id int64) (*domain.DepartmentBudget, error)
}

type departmentService struct {
	deptRepo repository.DepartmentRepository
}

// NewDepartmentService creates the department service.
func NewDepartmentService(deptRepo repository.DepartmentRepository) DepartmentService {
	return &departmentService{deptRepo: deptRepo}
}

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*domain.Department, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := Validate(req); err != nil {
		return nil, err
	}

	dept := &domain.Department{Name: req.Name}
	if err := s.deptRepo.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) List(ctx context.Context) ([]domain.Department, error) {
	return s.deptRepo.List(ctx)
}

func (s *departmentService) Table(ctx context.Context) (*store.Result, error) {
	return s.deptRepo.Table(ctx)
}

// Delete refuses to remove a department that roles still reference.
func (s *departmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.deptRepo.GetByID(ctx, id); err != nil {
		return err
	}

	roles, err := s.deptRepo.CountRoles(ctx, id)
	if err != nil {
		return err
	}
	if roles > 0 {
		return fmt.Errorf("%w: %d role(s) reference it", domain.ErrDepartmentHasRoles, roles)
	}

	return s.deptRepo.Delete(ctx, id)
}

// Budget returns a zero budget, not an error, for a department without employees.
func (s *departmentService) Budget(ctx context.Context, id int64) (*domain.DepartmentBudget, error) {
	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	budget, ok, err := s.deptRepo.UtilizedBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &domain.DepartmentBudget{DepartmentID: dept.ID, DepartmentName: dept.Name}, nil
	}
	return budget, nil
}
