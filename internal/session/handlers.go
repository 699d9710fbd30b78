package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/employee-tracker/internal/console"
	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/dto"
	"github.com/employee-tracker/internal/prompt"
	"github.com/employee-tracker/internal/service"
)

func (s *Session) viewDepartments(ctx context.Context) error {
	result, err := s.departments.Table(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(result.Rows))
	for i := range result.Rows {
		rows = append(rows, console.Cells(result.Values(i)...))
	}
	s.out.Table(result.Columns, rows)
	return nil
}

func (s *Session) viewRoles(ctx context.Context) error {
	roles, err := s.roles.ListViews(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(roles))
	for _, r := range roles {
		rows = append(rows, console.Cells(r.ID, r.Title, r.DepartmentName, r.SalaryCents))
	}
	s.out.Table([]string{"id", "title", "department", "salary"}, rows)
	return nil
}

func (s *Session) viewEmployees(ctx context.Context) error {
	employees, err := s.employees.ListViews(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, console.Cells(e.ID, e.FirstName, e.LastName, e.Title, e.DepartmentName, e.SalaryCents, e.ManagerName))
	}
	s.out.Table([]string{"id", "first_name", "last_name", "title", "department", "salary", "manager"}, rows)
	return nil
}

func (s *Session) addDepartment(ctx context.Context) error {
	name, err := s.prompter.Input(ctx, "What is the name of the department?", required(200))
	if err != nil {
		return err
	}

	dept, err := s.departments.Create(ctx, &dto.CreateDepartmentRequest{Name: name})
	if err != nil {
		return err
	}
	s.out.Success("Added %s to the database", dept.Name)
	return nil
}

func (s *Session) addRole(ctx context.Context) error {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return err
	}
	if len(departments) == 0 {
		return nothingToDo("there are no departments; add a department first")
	}

	title, err := s.prompter.Input(ctx, "What is the name of the role?", required(200))
	if err != nil {
		return err
	}
	salaryText, err := s.prompter.Input(ctx, "What is the salary of the role?", validSalary)
	if err != nil {
		return err
	}
	salary, err := domain.ParseMoney(salaryText)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	dept, err := s.prompter.Select(ctx, "Which department does the role belong to?", departmentChoices(departments))
	if err != nil {
		return err
	}

	role, err := s.roles.Create(ctx, &dto.CreateRoleRequest{
		Title:        title,
		Salary:       salary,
		DepartmentID: dept.Value,
	})
	if err != nil {
		return err
	}
	s.out.Success("Added %s to the database", role.Title)
	return nil
}

func (s *Session) addEmployee(ctx context.Context) error {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return nothingToDo("there are no roles; add a role first")
	}
	employees, err := s.employees.List(ctx)
	if err != nil {
		return err
	}

	first, err := s.prompter.Input(ctx, "What is the employee's first name?", required(100))
	if err != nil {
		return err
	}
	last, err := s.prompter.Input(ctx, "What is the employee's last name?", required(100))
	if err != nil {
		return err
	}
	role, err := s.prompter.Select(ctx, "What is the employee's role?", roleChoices(roles))
	if err != nil {
		return err
	}
	manager, err := s.prompter.Select(ctx, "Who is the employee's manager?",
		append([]prompt.Choice{prompt.None()}, employeeChoices(employees, 0)...))
	if err != nil {
		return err
	}

	req := &dto.CreateEmployeeRequest{
		FirstName: first,
		LastName:  last,
		RoleID:    &role.Value,
	}
	if manager.Kind == prompt.KindItem {
		req.ManagerID = &manager.Value
	}

	emp, err := s.employees.Create(ctx, req)
	if err != nil {
		return err
	}
	s.out.Success("Added %s to the database", emp.FullName())
	return nil
}

func (s *Session) addManager(ctx context.Context) error {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return err
	}
	if len(departments) == 0 {
		return nothingToDo("there are no departments")
	}

	dept, err := s.prompter.Select(ctx, "Which department is the employee in?", departmentChoices(departments))
	if err != nil {
		return err
	}
	members, err := s.employees.ListByDepartment(ctx, dept.Value)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return nothingToDo("no employee holds a role in %s", dept.Label)
	}

	memberChoices := make([]prompt.Choice, 0, len(members))
	for _, m := range members {
		memberChoices = append(memberChoices, prompt.Item(m.FirstName+" "+m.LastName, m.ID))
	}
	emp, err := s.prompter.Select(ctx, "Which employee gets a new manager?", memberChoices)
	if err != nil {
		return err
	}

	candidates, err := s.employees.List(ctx)
	if err != nil {
		return err
	}
	manager, err := s.prompter.Select(ctx, "Who is the employee's manager?",
		append([]prompt.Choice{prompt.None()}, employeeChoices(candidates, emp.Value)...))
	if err != nil {
		return err
	}

	req := &dto.AssignManagerRequest{DepartmentID: dept.Value, EmployeeID: emp.Value}
	if manager.Kind == prompt.KindItem {
		req.ManagerID = &manager.Value
	}
	if _, err := s.employees.AssignManager(ctx, req); err != nil {
		return err
	}

	if req.ManagerID == nil {
		s.out.Success("%s no longer has a manager", emp.Label)
		return nil
	}
	s.out.Success("%s now reports to %s", emp.Label, manager.Label)
	return nil
}

func (s *Session) promoteManager(ctx context.Context) error {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		return nothingToDo("there are no employees")
	}
	roles, err := s.roles.ManagerRoles(ctx)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return nothingToDo("there is no role with %q in its title; add one first", service.ManagerTitleFragment)
	}

	emp, err := s.prompter.Select(ctx, "Which employee is being promoted?", employeeChoices(employees, 0))
	if err != nil {
		return err
	}
	role, err := s.prompter.Select(ctx, "Which manager role do they take?", roleChoices(roles))
	if err != nil {
		return err
	}

	if _, err := s.employees.Promote(ctx, &dto.UpdateEmployeeRoleRequest{EmployeeID: emp.Value, RoleID: role.Value}); err != nil {
		return err
	}
	s.out.Success("Promoted %s to %s", emp.Label, role.Label)
	return nil
}

func (s *Session) updateEmployeeRole(ctx context.Context) error {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		return nothingToDo("there are no employees")
	}
	roles, err := s.roles.List(ctx)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return nothingToDo("there are no roles; add a role first")
	}

	emp, err := s.prompter.Select(ctx, "Which employee's role do you want to update?", employeeChoices(employees, 0))
	if err != nil {
		return err
	}
	role, err := s.prompter.Select(ctx, "Which role do you want to assign the selected employee?", roleChoices(roles))
	if err != nil {
		return err
	}

	if _, err := s.employees.UpdateRole(ctx, &dto.UpdateEmployeeRoleRequest{EmployeeID: emp.Value, RoleID: role.Value}); err != nil {
		return err
	}
	s.out.Success("Updated %s's role to %s", emp.Label, role.Label)
	return nil
}

func (s *Session) viewByManager(ctx context.Context) error {
	managers, err := s.employees.ListManagers(ctx)
	if err != nil {
		return err
	}
	if len(managers) == 0 {
		return nothingToDo("no employee has a manager yet")
	}

	choices := make([]prompt.Choice, 0, len(managers))
	for _, m := range managers {
		choices = append(choices, prompt.Item(m.FullName(), m.ID))
	}
	manager, err := s.prompter.Select(ctx, "Whose reports do you want to see?", choices)
	if err != nil {
		return err
	}

	reports, err := s.employees.ListByManager(ctx, manager.Value)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(reports))
	for _, e := range reports {
		rows = append(rows, console.Cells(e.ID, e.FirstName, e.LastName, e.Title, e.DepartmentName))
	}
	s.out.Table([]string{"id", "first_name", "last_name", "title", "department"}, rows)
	return nil
}

func (s *Session) viewByDepartment(ctx context.Context) error {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return err
	}
	if len(departments) == 0 {
		return nothingToDo("there are no departments")
	}

	dept, err := s.prompter.Select(ctx, "Which department do you want to see?", departmentChoices(departments))
	if err != nil {
		return err
	}

	employees, err := s.employees.ListByDepartment(ctx, dept.Value)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, console.Cells(e.ID, e.FirstName, e.LastName, e.Title, e.ManagerName))
	}
	s.out.Table([]string{"id", "first_name", "last_name", "title", "manager"}, rows)
	return nil
}

func (s *Session) deleteDepartment(ctx context.Context) error {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return err
	}
	if len(departments) == 0 {
		return nothingToDo("there are no departments to delete")
	}

	dept, err := s.prompter.Select(ctx, "Which department do you want to delete?",
		append(departmentChoices(departments), prompt.Back()))
	if err != nil {
		return err
	}
	if dept.Kind == prompt.KindBack {
		return errGoBack
	}

	if err := s.departments.Delete(ctx, dept.Value); err != nil {
		return err
	}
	s.out.Success("Deleted department %s", dept.Label)
	return nil
}

func (s *Session) deleteRole(ctx context.Context) error {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return nothingToDo("there are no roles to delete")
	}

	role, err := s.prompter.Select(ctx, "Which role do you want to delete?", append(roleChoices(roles), prompt.Back()))
	if err != nil {
		return err
	}
	if role.Kind == prompt.KindBack {
		return errGoBack
	}

	holders, err := s.roles.Holders(ctx, role.Value)
	if err != nil {
		return err
	}
	if holders > 0 {
		ok, err := s.prompter.Confirm(ctx,
			fmt.Sprintf("%d employee(s) hold %s and will be left without a role. Delete it?", holders, role.Label))
		if err != nil {
			return err
		}
		if !ok {
			s.out.Info("Kept role %s", role.Label)
			return nil
		}
	}

	detached, err := s.roles.Delete(ctx, role.Value)
	if err != nil {
		return err
	}
	s.out.Success("Deleted role %s%s", role.Label, detachedSuffix(detached, "role"))
	return nil
}

func (s *Session) deleteEmployee(ctx context.Context) error {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		return nothingToDo("there are no employees to delete")
	}

	emp, err := s.prompter.Select(ctx, "Which employee do you want to delete?",
		append(employeeChoices(employees, 0), prompt.Back()))
	if err != nil {
		return err
	}
	if emp.Kind == prompt.KindBack {
		return errGoBack
	}

	reports, err := s.employees.Reports(ctx, emp.Value)
	if err != nil {
		return err
	}
	if reports > 0 {
		ok, err := s.prompter.Confirm(ctx,
			fmt.Sprintf("%d employee(s) report to %s and will be left without a manager. Delete them?", reports, emp.Label))
		if err != nil {
			return err
		}
		if !ok {
			s.out.Info("Kept %s", emp.Label)
			return nil
		}
	}

	detached, err := s.employees.Delete(ctx, emp.Value)
	if err != nil {
		return err
	}
	s.out.Success("Deleted %s%s", emp.Label, detachedSuffix(detached, "manager"))
	return nil
}

func (s *Session) viewBudget(ctx context.Context) error {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return err
	}
	if len(departments) == 0 {
		return nothingToDo("there are no departments")
	}

	dept, err := s.prompter.Select(ctx, "Which department's budget do you want to see?", departmentChoices(departments))
	if err != nil {
		return err
	}

	budget, err := s.departments.Budget(ctx, dept.Value)
	if err != nil {
		return err
	}
	if budget.Headcount == 0 {
		s.out.Info("%s has no employees; utilized budget %s", budget.DepartmentName, budget.TotalCents)
		return nil
	}
	s.out.Table([]string{"department", "employees", "utilized_budget"}, [][]string{
		console.Cells(budget.DepartmentName, budget.Headcount, budget.TotalCents),
	})
	return nil
}

func departmentChoices(departments []domain.Department) []prompt.Choice {
	choices := make([]prompt.Choice, 0, len(departments))
	for _, d := range departments {
		choices = append(choices, prompt.Item(d.Name, d.ID))
	}
	return choices
}

func roleChoices(roles []domain.Role) []prompt.Choice {
	choices := make([]prompt.Choice, 0, len(roles))
	for _, r := range roles {
		choices = append(choices, prompt.Item(r.Title, r.ID))
	}
	return choices
}

// employeeChoices lists employees by full name, leaving out exclude.
func employeeChoices(employees []domain.Employee, exclude int64) []prompt.Choice {
	choices := make([]prompt.Choice, 0, len(employees))
	for _, e := range employees {
		if e.ID == exclude {
			continue
		}
		choices = append(choices, prompt.Item(e.FullName(), e.ID))
	}
	return choices
}

func detachedSuffix(n int64, what string) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf(" (%d employee(s) left without a %s)", n, what)
}

// required validates a free-text field the way the request tags do.
func required(maxLen int) func(string) error {
	tag := fmt.Sprintf("required,max=%d", maxLen)
	return func(v string) error {
		return service.ValidateVar(strings.TrimSpace(v), tag)
	}
}

func validSalary(v string) error {
	_, err := domain.ParseMoney(v)
	return err
}
