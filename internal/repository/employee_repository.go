package repository

import (
	"context"

	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/store"
)

// EmployeeRepository covers the employee table and its self-reference.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	ListViews(ctx context.Context) ([]domain.EmployeeView, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]domain.EmployeeView, error)
	ListByManager(ctx context.Context, managerID int64) ([]domain.EmployeeView, error)
	ListManagers(ctx context.Context) ([]domain.ManagerSummary, error)
	InDepartment(ctx context.Context, employeeID, departmentID int64) (bool, error)
	UpdateRole(ctx context.Context, id, roleID int64) error
	UpdateManager(ctx context.Context, id int64, managerID *int64) error
	ReportsTo(ctx context.Context, subordinateID, superiorID int64) (bool, error)
	CountReports(ctx context.Context, id int64) (int64, error)
	DeleteDetaching(ctx context.Context, id int64) (int64, error)
}

type employeeRepository struct {
	st *store.Store
}

// NewEmployeeRepository creates a repository over st.
func NewEmployeeRepository(st *store.Store) EmployeeRepository {
	return &employeeRepository{st: st}
}

const employeeViewSelect = `
	SELECT
		e.id,
		e.first_name,
		e.last_name,
		r.title,
		d.department_name,
		r.salary_cents,
		m.first_name || ' ' || m.last_name AS manager_name
	FROM employee e
		LEFT JOIN roles r ON e.role_id = r.id
		LEFT JOIN departments d ON r.department_id = d.id
		LEFT JOIN employee m ON e.manager_id = m.id`

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	return r.st.Scan(ctx, &emp.ID, `
		INSERT INTO employee (first_name, last_name, role_id, manager_id)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		emp.FirstName, emp.LastName, emp.RoleID, emp.ManagerID)
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	var emps []domain.Employee
	err := r.st.Scan(ctx, &emps,
		`SELECT id, first_name, last_name, role_id, manager_id FROM employee WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(emps) == 0 {
		return nil, domain.ErrEmployeeNotFound
	}
	return &emps[0], nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	var emps []domain.Employee
	err := r.st.Scan(ctx, &emps,
		`SELECT id, first_name, last_name, role_id, manager_id FROM employee ORDER BY id`)
	return emps, err
}

func (r *employeeRepository) ListViews(ctx context.Context) ([]domain.EmployeeView, error) {
	var views []domain.EmployeeView
	err := r.st.Scan(ctx, &views, employeeViewSelect+` ORDER BY e.id`)
	return views, err
}

func (r *employeeRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]domain.EmployeeView, error) {
	var views []domain.EmployeeView
	err := r.st.Scan(ctx, &views, employeeViewSelect+`
		WHERE d.id = ?
		ORDER BY e.last_name, e.first_name, e.id`, departmentID)
	return views, err
}

func (r *employeeRepository) ListByManager(ctx context.Context, managerID int64) ([]domain.EmployeeView, error) {
	var views []domain.EmployeeView
	err := r.st.Scan(ctx, &views, employeeViewSelect+`
		WHERE e.manager_id = ?
		ORDER BY e.last_name, e.first_name, e.id`, managerID)
	return views, err
}

// ListManagers returns the distinct employees that someone reports to.
func (r *employeeRepository) ListManagers(ctx context.Context) ([]domain.ManagerSummary, error) {
	var managers []domain.ManagerSummary
	err := r.st.Scan(ctx, &managers, `
		SELECT m.id, m.first_name, m.last_name, COUNT(e.id) AS reports
		FROM employee m
			INNER JOIN employee e ON e.manager_id = m.id
		GROUP BY m.id, m.first_name, m.last_name
		ORDER BY m.last_name, m.first_name, m.id`)
	return managers, err
}

// InDepartment reports whether the employee holds a role in the department.
func (r *employeeRepository) InDepartment(ctx context.Context, employeeID, departmentID int64) (bool, error) {
	var count int64
	err := r.st.Scan(ctx, &count, `
		SELECT COUNT(*)
		FROM employee e
			INNER JOIN roles r ON e.role_id = r.id
		WHERE e.id = ? AND r.department_id = ?`, employeeID, departmentID)
	return count > 0, err
}

func (r *employeeRepository) UpdateRole(ctx context.Context, id, roleID int64) error {
	n, err := r.st.Exec(ctx, `UPDATE employee SET role_id = ? WHERE id = ?`, roleID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepository) UpdateManager(ctx context.Context, id int64, managerID *int64) error {
	n, err := r.st.Exec(ctx, `UPDATE employee SET manager_id = ? WHERE id = ?`, managerID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

// ReportsTo reports whether superiorID is subordinateID itself or appears
// anywhere in subordinateID's chain of managers. UNION (not UNION ALL) stops
// the walk if the stored chain already loops.
func (r *employeeRepository) ReportsTo(ctx context.Context, subordinateID, superiorID int64) (bool, error) {
	var count int64
	err := r.st.Scan(ctx, &count, `
		WITH RECURSIVE chain (id, manager_id) AS (
			SELECT id, manager_id FROM employee WHERE id = ?
			UNION
			SELECT e.id, e.manager_id FROM employee e
			INNER JOIN chain c ON e.id = c.manager_id
		)
		SELECT COUNT(*) FROM chain WHERE id = ?`, subordinateID, superiorID)
	return count > 0, err
}

func (r *employeeRepository) CountReports(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.st.Scan(ctx, &count, `SELECT COUNT(*) FROM employee WHERE manager_id = ?`, id)
	return count, err
}

// DeleteDetaching clears manager_id on the employee's reports and deletes the
// employee, in one transaction. It returns how many reports were detached.
func (r *employeeRepository) DeleteDetaching(ctx context.Context, id int64) (int64, error) {
	var detached int64
	err := r.st.Transaction(ctx, func(tx *store.Store) error {
		n, err := tx.Exec(ctx, `UPDATE employee SET manager_id = NULL WHERE manager_id = ?`, id)
		if err != nil {
			return err
		}
		deleted, err := tx.Exec(ctx, `DELETE FROM employee WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return domain.ErrEmployeeNotFound
		}
		detached = n
		return nil
	})
	return detached, err
}
