package repository

import (
	"context"
	"strings"

	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/store"
)

// RoleRepository covers the roles table.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	ListViews(ctx context.Context) ([]domain.RoleView, error)
	ListByTitle(ctx context.Context, fragment string) ([]domain.Role, error)
	CountHolders(ctx context.Context, id int64) (int64, error)
	DeleteDetaching(ctx context.Context, id int64) (int64, error)
}

type roleRepository struct {
	st *store.Store
}

// NewRoleRepository creates a repository over st.
func NewRoleRepository(st *store.Store) RoleRepository {
	return &roleRepository{st: st}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	return r.st.Scan(ctx, &role.ID,
		`INSERT INTO roles (title, salary_cents, department_id) VALUES (?, ?, ?) RETURNING id`,
		role.Title, role.Salary, role.DepartmentID)
}

func (r *roleRepository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	var roles []domain.Role
	err := r.st.Scan(ctx, &roles,
		`SELECT id, title, salary_cents, department_id FROM roles WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, domain.ErrRoleNotFound
	}
	return &roles[0], nil
}

func (r *roleRepository) List(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	err := r.st.Scan(ctx, &roles,
		`SELECT id, title, salary_cents, department_id FROM roles ORDER BY id`)
	return roles, err
}

func (r *roleRepository) ListViews(ctx context.Context) ([]domain.RoleView, error) {
	var views []domain.RoleView
	err := r.st.Scan(ctx, &views, `
		SELECT r.id, r.title, d.department_name, r.salary_cents
		FROM roles r
			JOIN departments d ON r.department_id = d.id
		ORDER BY r.id`)
	return views, err
}

// ListByTitle returns roles whose title contains fragment, ignoring case.
func (r *roleRepository) ListByTitle(ctx context.Context, fragment string) ([]domain.Role, error) {
	var roles []domain.Role
	err := r.st.Scan(ctx, &roles, `
		SELECT id, title, salary_cents, department_id
		FROM roles
		WHERE LOWER(title) LIKE ?
		ORDER BY id`, "%"+strings.ToLower(fragment)+"%")
	return roles, err
}

func (r *roleRepository) CountHolders(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.st.Scan(ctx, &count, `SELECT COUNT(*) FROM employee WHERE role_id = ?`, id)
	return count, err
}

// DeleteDetaching clears role_id on every holder and deletes the role, in one
// transaction. It returns how many employees were detached.
func (r *roleRepository) DeleteDetaching(ctx context.Context, id int64) (int64, error) {
	var detached int64
	err := r.st.Transaction(ctx, func(tx *store.Store) error {
		n, err := tx.Exec(ctx, `UPDATE employee SET role_id = NULL WHERE role_id = ?`, id)
		if err != nil {
			return err
		}
		deleted, err := tx.Exec(ctx, `DELETE FROM roles WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return domain.ErrRoleNotFound
		}
		detached = n
		return nil
	})
	return detached, err
}
