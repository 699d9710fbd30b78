package repository

import (
	"context"

	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/store"
)

// DepartmentRepository covers the departments table and the budget aggregate.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
	Table(ctx context.Context) (*store.Result, error)
	Delete(ctx context.Context, id int64) error
	CountRoles(ctx context.Context, id int64) (int64, error)
	UtilizedBudget(ctx context.Context, id int64) (*domain.DepartmentBudget, bool, error)
}

type departmentRepository struct {
	st *store.Store
}

// NewDepartmentRepository creates a repository over st.
func NewDepartmentRepository(st *store.Store) DepartmentRepository {
	return &departmentRepository{st: st}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	return r.st.Scan(ctx, &dept.ID,
		`INSERT INTO departments (department_name) VALUES (?) RETURNING id`, dept.Name)
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	var depts []domain.Department
	if err := r.st.Scan(ctx, &depts, `SELECT id, department_name FROM departments WHERE id = ?`, id); err != nil {
		return nil, err
	}
	if len(depts) == 0 {
		return nil, domain.ErrDepartmentNotFound
	}
	return &depts[0], nil
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	var depts []domain.Department
	err := r.st.Scan(ctx, &depts, `SELECT id, department_name FROM departments ORDER BY id`)
	return depts, err
}

func (r *departmentRepository) Table(ctx context.Context) (*store.Result, error) {
	return r.st.Query(ctx, `SELECT * FROM departments ORDER BY id`)
}

func (r *departmentRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.st.Exec(ctx, `DELETE FROM departments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrDepartmentNotFound
	}
	return nil
}

func (r *departmentRepository) CountRoles(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.st.Scan(ctx, &count, `SELECT COUNT(*) FROM roles WHERE department_id = ?`, id)
	return count, err
}

// UtilizedBudget sums the salary of every employee holding a role in the
// department. A department without employees yields no row, reported as
// ok == false.
func (r *departmentRepository) UtilizedBudget(ctx context.Context, id int64) (*domain.DepartmentBudget, bool, error) {
	var rows []domain.DepartmentBudget
	err := r.st.Scan(ctx, &rows, `
		SELECT
			d.id AS department_id,
			d.department_name,
			COUNT(e.id) AS headcount,
			CAST(SUM(r.salary_cents) AS BIGINT) AS total_cents
		FROM departments d
			INNER JOIN roles r ON d.id = r.department_id
			INNER JOIN employee e ON r.id = e.role_id
		WHERE d.id = ?
		GROUP BY d.id, d.department_name`, id)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return &rows[0], true, nil
}
