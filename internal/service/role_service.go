package service

import (
	"context"
	"strings"

	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/dto"
	"github.com/employee-tracker/internal/repository"
)

// RoleService holds the rules for roles.
type RoleService interface {
	Create(ctx context.Context, req *dto.CreateRoleRequest) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	ListViews(ctx context.Context) ([]domain.RoleView, error)
	ManagerRoles(ctx context.Context) ([]domain.Role, error)
	Holders(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type roleService struct {
	roleRepo repository.RoleRepository
	deptRepo repository.DepartmentRepository
}

// NewRoleService creates the role service.
func NewRoleService(roleRepo repository.RoleRepository, deptRepo repository.DepartmentRepository) RoleService {
	return &roleService{
		roleRepo: roleRepo,
		deptRepo: deptRepo,
	}
}

func (s *roleService) Create(ctx context.Context, req *dto.CreateRoleRequest) (*domain.Role, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := Validate(req); err != nil {
		return nil, err
	}

	// The department was picked from a list, but may have gone since.
	if _, err := s.deptRepo.GetByID(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	role := &domain.Role{
		Title:        req.Title,
		Salary:       req.Salary,
		DepartmentID: req.DepartmentID,
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.roleRepo.List(ctx)
}

func (s *roleService) ListViews(ctx context.Context) ([]domain.RoleView, error) {
	return s.roleRepo.ListViews(ctx)
}

func (s *roleService) ManagerRoles(ctx context.Context) ([]domain.Role, error) {
	return s.roleRepo.ListByTitle(ctx, ManagerTitleFragment)
}

func (s *roleService) Holders(ctx context.Context, id int64) (int64, error) {
	if _, err := s.roleRepo.GetByID(ctx, id); err != nil {
		return 0, err
	}
	return s.roleRepo.CountHolders(ctx, id)
}

// Delete removes the role and leaves its holders without a role. It returns
// how many employees were detached.
func (s *roleService) Delete(ctx context.Context, id int64) (int64, error) {
	if _, err := s.roleRepo.GetByID(ctx, id); err != nil {
		return 0, err
	}
	return s.roleRepo.DeleteDetaching(ctx, id)
}
