package service

import (
	"context"
	"sort"
	"strings"

	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/store"
)

type mockStore struct {
	departments map[int64]*domain.Department
	roles       map[int64]*domain.Role
	employees   map[int64]*domain.Employee
	nextID      int64
}

func newMockStore() *mockStore {
	return &mockStore{
		departments: make(map[int64]*domain.Department),
		roles:       make(map[int64]*domain.Role),
		employees:   make(map[int64]*domain.Employee),
		nextID:      1,
	}
}

func (m *mockStore) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

type mockDepartmentRepo struct{ *mockStore }

func (m mockDepartmentRepo) Create(ctx context.Context, dept *domain.Department) error {
	dept.ID = m.id()
	m.departments[dept.ID] = dept
	return nil
}

func (m mockDepartmentRepo) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	if dept, ok := m.departments[id]; ok {
		return dept, nil
	}
	return nil, domain.ErrDepartmentNotFound
}

func (m mockDepartmentRepo) List(ctx context.Context) ([]domain.Department, error) {
	var result []domain.Department
	for _, d := range m.departments {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m mockDepartmentRepo) Table(ctx context.Context) (*store.Result, error) {
	depts, _ := m.List(ctx)
	result := &store.Result{Columns: []string{"id", "department_name"}}
	for _, d := range depts {
		result.Rows = append(result.Rows, store.Row{"id": d.ID, "department_name": d.Name})
	}
	return result, nil
}

func (m mockDepartmentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.departments[id]; !ok {
		return domain.ErrDepartmentNotFound
	}
	delete(m.departments, id)
	return nil
}

func (m mockDepartmentRepo) CountRoles(ctx context.Context, id int64) (int64, error) {
	var n int64
	for _, r := range m.roles {
		if r.DepartmentID == id {
			n++
		}
	}
	return n, nil
}

func (m mockDepartmentRepo) UtilizedBudget(ctx context.Context, id int64) (*domain.DepartmentBudget, bool, error) {
	dept, ok := m.departments[id]
	if !ok {
		return nil, false, nil
	}
	budget := &domain.DepartmentBudget{DepartmentID: id, DepartmentName: dept.Name}
	for _, e := range m.employees {
		if e.RoleID == nil {
			continue
		}
		if r, ok := m.roles[*e.RoleID]; ok && r.DepartmentID == id {
			budget.Headcount++
			budget.TotalCents += r.Salary
		}
	}
	if budget.Headcount == 0 {
		return nil, false, nil
	}
	return budget, true, nil
}

type mockRoleRepo struct{ *mockStore }

func (m mockRoleRepo) Create(ctx context.Context, role *domain.Role) error {
	role.ID = m.id()
	m.roles[role.ID] = role
	return nil
}

func (m mockRoleRepo) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	if role, ok := m.roles[id]; ok {
		return role, nil
	}
	return nil, domain.ErrRoleNotFound
}

func (m mockRoleRepo) List(ctx context.Context) ([]domain.Role, error) {
	var result []domain.Role
	for _, r := range m.roles {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m mockRoleRepo) ListViews(ctx context.Context) ([]domain.RoleView, error) {
	roles, _ := m.List(ctx)
	var result []domain.RoleView
	for _, r := range roles {
		result = append(result, domain.RoleView{
			ID:             r.ID,
			Title:          r.Title,
			DepartmentName: m.departments[r.DepartmentID].Name,
			SalaryCents:    r.Salary,
		})
	}
	return result, nil
}

func (m mockRoleRepo) ListByTitle(ctx context.Context, fragment string) ([]domain.Role, error) {
	roles, _ := m.List(ctx)
	var result []domain.Role
	for _, r := range roles {
		if strings.Contains(strings.ToLower(r.Title), strings.ToLower(fragment)) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m mockRoleRepo) CountHolders(ctx context.Context, id int64) (int64, error) {
	var n int64
	for _, e := range m.employees {
		if e.RoleID != nil && *e.RoleID == id {
			n++
		}
	}
	return n, nil
}

func (m mockRoleRepo) DeleteDetaching(ctx context.Context, id int64) (int64, error) {
	if _, ok := m.roles[id]; !ok {
		return 0, domain.ErrRoleNotFound
	}
	var n int64
	for _, e := range m.employees {
		if e.RoleID != nil && *e.RoleID == id {
			e.RoleID = nil
			n++
		}
	}
	delete(m.roles, id)
	return n, nil
}

type mockEmployeeRepo struct{ *mockStore }

func (m mockEmployeeRepo) Create(ctx context.Context, emp *domain.Employee) error {
	emp.ID = m.id()
	m.employees[emp.ID] = emp
	return nil
}

func (m mockEmployeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	if emp, ok := m.employees[id]; ok {
		cp := *emp
		return &cp, nil
	}
	return nil, domain.ErrEmployeeNotFound
}

func (m mockEmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	var result []domain.Employee
	for _, e := range m.employees {
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m mockEmployeeRepo) view(e domain.Employee) domain.EmployeeView {
	v := domain.EmployeeView{ID: e.ID, FirstName: e.FirstName, LastName: e.LastName}
	if e.RoleID != nil {
		if r, ok := m.roles[*e.RoleID]; ok {
			v.Title = &r.Title
			v.SalaryCents = &r.Salary
			if d, ok := m.departments[r.DepartmentID]; ok {
				v.DepartmentName = &d.Name
			}
		}
	}
	if e.ManagerID != nil {
		if mgr, ok := m.employees[*e.ManagerID]; ok {
			name := mgr.FullName()
			v.ManagerName = &name
		}
	}
	return v
}

func (m mockEmployeeRepo) ListViews(ctx context.Context) ([]domain.EmployeeView, error) {
	emps, _ := m.List(ctx)
	var result []domain.EmployeeView
	for _, e := range emps {
		result = append(result, m.view(e))
	}
	return result, nil
}

func (m mockEmployeeRepo) ListByDepartment(ctx context.Context, departmentID int64) ([]domain.EmployeeView, error) {
	emps, _ := m.List(ctx)
	var result []domain.EmployeeView
	for _, e := range emps {
		if ok, _ := m.InDepartment(ctx, e.ID, departmentID); ok {
			result = append(result, m.view(e))
		}
	}
	return result, nil
}

func (m mockEmployeeRepo) ListByManager(ctx context.Context, managerID int64) ([]domain.EmployeeView, error) {
	emps, _ := m.List(ctx)
	var result []domain.EmployeeView
	for _, e := range emps {
		if e.ManagerID != nil && *e.ManagerID == managerID {
			result = append(result, m.view(e))
		}
	}
	return result, nil
}

func (m mockEmployeeRepo) ListManagers(ctx context.Context) ([]domain.ManagerSummary, error) {
	counts := make(map[int64]int64)
	for _, e := range m.employees {
		if e.ManagerID != nil {
			counts[*e.ManagerID]++
		}
	}
	var result []domain.ManagerSummary
	for id, n := range counts {
		mgr := m.employees[id]
		result = append(result, domain.ManagerSummary{ID: id, FirstName: mgr.FirstName, LastName: mgr.LastName, Reports: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m mockEmployeeRepo) InDepartment(ctx context.Context, employeeID, departmentID int64) (bool, error) {
	e, ok := m.employees[employeeID]
	if !ok || e.RoleID == nil {
		return false, nil
	}
	r, ok := m.roles[*e.RoleID]
	return ok && r.DepartmentID == departmentID, nil
}

func (m mockEmployeeRepo) UpdateRole(ctx context.Context, id, roleID int64) error {
	e, ok := m.employees[id]
	if !ok {
		return domain.ErrEmployeeNotFound
	}
	e.RoleID = &roleID
	return nil
}

func (m mockEmployeeRepo) UpdateManager(ctx context.Context, id int64, managerID *int64) error {
	e, ok := m.employees[id]
	if !ok {
		return domain.ErrEmployeeNotFound
	}
	e.ManagerID = managerID
	return nil
}

func (m mockEmployeeRepo) ReportsTo(ctx context.Context, subordinateID, superiorID int64) (bool, error) {
	current := subordinateID
	visited := make(map[int64]bool)
	for {
		if current == superiorID {
			return true, nil
		}
		if visited[current] {
			return false, nil
		}
		visited[current] = true
		e, ok := m.employees[current]
		if !ok || e.ManagerID == nil {
			return false, nil
		}
		current = *e.ManagerID
	}
}

func (m mockEmployeeRepo) CountReports(ctx context.Context, id int64) (int64, error) {
	var n int64
	for _, e := range m.employees {
		if e.ManagerID != nil && *e.ManagerID == id {
			n++
		}
	}
	return n, nil
}

func (m mockEmployeeRepo) DeleteDetaching(ctx context.Context, id int64) (int64, error) {
	if _, ok := m.employees[id]; !ok {
		return 0, domain.ErrEmployeeNotFound
	}
	var n int64
	for _, e := range m.employees {
		if e.ManagerID != nil && *e.ManagerID == id {
			e.ManagerID = nil
			n++
		}
	}
	delete(m.employees, id)
	return n, nil
}
