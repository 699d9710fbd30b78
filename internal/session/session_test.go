package session

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/employee-tracker/internal/database/databasetest"
	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/dto"
	"github.com/employee-tracker/internal/prompt"
	"github.com/employee-tracker/internal/repository"
	"github.com/employee-tracker/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type answerKind int

const (
	answerSelect answerKind = iota
	answerInput
	answerConfirm
)

type answer struct {
	kind   answerKind
	text   string
	yes    bool
	before func()
}

func pick(label string) answer  { return answer{kind: answerSelect, text: label} }
func typeIn(text string) answer { return answer{kind: answerInput, text: text} }
func confirm(yes bool) answer   { return answer{kind: answerConfirm, yes: yes} }

// shownPrompt is one Select call as the operator saw it.
type shownPrompt struct {
	message string
	choices []prompt.Choice
}

// scriptedPrompter answers prompts from a script. When the script runs out it
// behaves like a closed stdin.
type scriptedPrompter struct {
	t        *testing.T
	answers  []answer
	shown    []shownPrompt
	rejected []string
}

func (p *scriptedPrompter) next(kind answerKind, message string) (answer, error) {
	if len(p.answers) == 0 {
		return answer{}, prompt.ErrInterrupted
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	if a.kind != kind {
		p.t.Errorf("prompt %q: script answer %+v has the wrong kind", message, a)
		return answer{}, prompt.ErrInterrupted
	}
	if a.before != nil {
		a.before()
	}
	return a, nil
}

func (p *scriptedPrompter) Select(_ context.Context, message string, choices []prompt.Choice) (prompt.Choice, error) {
	p.shown = append(p.shown, shownPrompt{message: message, choices: choices})

	a, err := p.next(answerSelect, message)
	if err != nil {
		return prompt.Choice{}, err
	}
	for _, c := range choices {
		if c.Label == a.text {
			return c, nil
		}
	}
	p.t.Errorf("prompt %q: no choice labeled %q in %v", message, a.text, labels(choices))
	return prompt.Choice{}, prompt.ErrInterrupted
}

func (p *scriptedPrompter) Input(_ context.Context, message string, validate func(string) error) (string, error) {
	for {
		a, err := p.next(answerInput, message)
		if err != nil {
			return "", err
		}
		if validate != nil {
			if err := validate(a.text); err != nil {
				p.rejected = append(p.rejected, a.text)
				continue
			}
		}
		return a.text, nil
	}
}

func (p *scriptedPrompter) Confirm(_ context.Context, message string) (bool, error) {
	a, err := p.next(answerConfirm, message)
	if err != nil {
		return false, err
	}
	return a.yes, nil
}

// choicesFor returns the choices of the last Select shown with message.
func (p *scriptedPrompter) choicesFor(message string) []prompt.Choice {
	for i := len(p.shown) - 1; i >= 0; i-- {
		if p.shown[i].message == message {
			return p.shown[i].choices
		}
	}
	p.t.Fatalf("prompt %q was never shown", message)
	return nil
}

func labels(choices []prompt.Choice) []string {
	out := make([]string, len(choices))
	for i, c := range choices {
		out[i] = c.Label
	}
	return out
}

type harness struct {
	svcs     Services
	prompter *scriptedPrompter
	out      *bytes.Buffer
	session  *Session
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st := databasetest.NewStore(t)

	deptRepo := repository.NewDepartmentRepository(st)
	roleRepo := repository.NewRoleRepository(st)
	empRepo := repository.NewEmployeeRepository(st)

	h := &harness{
		svcs: Services{
			Departments: service.NewDepartmentService(deptRepo),
			Roles:       service.NewRoleService(roleRepo, deptRepo),
			Employees:   service.NewEmployeeService(empRepo, roleRepo, deptRepo),
		},
		prompter: &scriptedPrompter{t: t},
		out:      &bytes.Buffer{},
	}
	return h
}

func (h *harness) run(t *testing.T, script ...answer) {
	t.Helper()
	h.prompter.answers = script
	h.session = New(h.svcs, h.prompter, h.out, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, h.session.Run(context.Background()))
	assert.Equal(t, StateTerminated, h.session.State())
	assert.Empty(t, h.prompter.answers, "script not fully consumed")
}

func (h *harness) department(t *testing.T, name string) *domain.Department {
	t.Helper()
	d, err := h.svcs.Departments.Create(context.Background(), &dto.CreateDepartmentRequest{Name: name})
	require.NoError(t, err)
	return d
}

func (h *harness) role(t *testing.T, title string, salary domain.Money, deptID int64) *domain.Role {
	t.Helper()
	r, err := h.svcs.Roles.Create(context.Background(), &dto.CreateRoleRequest{Title: title, Salary: salary, DepartmentID: deptID})
	require.NoError(t, err)
	return r
}

func (h *harness) employee(t *testing.T, first, last string, roleID, managerID *int64) *domain.Employee {
	t.Helper()
	e, err := h.svcs.Employees.Create(context.Background(), &dto.CreateEmployeeRequest{
		FirstName: first, LastName: last, RoleID: roleID, ManagerID: managerID,
	})
	require.NoError(t, err)
	return e
}

func TestSession_AddAndBudget(t *testing.T) {
	h := newHarness(t)

	h.run(t,
		pick("Add a department"), typeIn("Engineering"),
		pick("Add a role"), typeIn("Engineer"), typeIn("90000"), pick("Engineering"),
		pick("Add an employee"), typeIn("Ada"), typeIn("Lovelace"), pick("Engineer"), pick("None"),
		pick("View the total utilized budget of a department"), pick("Engineering"),
		pick("View the total utilized budget of a department"), pick("Engineering"),
		pick("Exit"),
	)

	out := h.out.String()
	assert.Contains(t, out, "Added Engineering to the database")
	assert.Contains(t, out, "Added Engineer to the database")
	assert.Contains(t, out, "Added Ada Lovelace to the database")
	assert.Equal(t, 2, bytes.Count(h.out.Bytes(), []byte("90000.00")))
	assert.Contains(t, out, "Goodbye!")

	managers := h.prompter.choicesFor("Who is the employee's manager?")
	assert.Equal(t, []string{"None"}, labels(managers))
	assert.Equal(t, prompt.KindNone, managers[0].Kind)

	views, err := h.svcs.Employees.ListViews(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].ManagerName)
	require.NotNil(t, views[0].Title)
	assert.Equal(t, "Engineer", *views[0].Title)
}

func TestSession_RolePicklistMatchesDepartments(t *testing.T) {
	h := newHarness(t)
	h.department(t, "Engineering")
	h.department(t, "Sales")

	h.run(t,
		pick("Add a role"), typeIn("Account Executive"), typeIn("-5"), typeIn("$75,000.50"), pick("Sales"),
		pick("View all roles"),
		pick("Exit"),
	)

	assert.Equal(t, []string{"Engineering", "Sales"},
		labels(h.prompter.choicesFor("Which department does the role belong to?")))
	assert.Equal(t, []string{"-5"}, h.prompter.rejected)
	assert.Contains(t, h.out.String(), "75000.50")
}

func TestSession_AddEmployeeWithManager(t *testing.T) {
	h := newHarness(t)
	eng := h.department(t, "Engineering")
	role := h.role(t, "Engineer", 9000000, eng.ID)
	h.employee(t, "Ada", "Lovelace", &role.ID, nil)

	h.run(t,
		pick("Add an employee"), typeIn("Charles"), typeIn("Babbage"), pick("Engineer"), pick("Ada Lovelace"),
		pick("View all employees"),
		pick("Exit"),
	)

	managers := h.prompter.choicesFor("Who is the employee's manager?")
	assert.Equal(t, []string{"None", "Ada Lovelace"}, labels(managers))

	views, err := h.svcs.Employees.ListViews(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.NotNil(t, views[1].ManagerName)
	assert.Equal(t, "Ada Lovelace", *views[1].ManagerName)
}

func TestSession_ViewByManager(t *testing.T) {
	h := newHarness(t)
	a := h.employee(t, "Ada", "Lovelace", nil, nil)
	h.employee(t, "Charles", "Babbage", nil, &a.ID)
	h.employee(t, "Grace", "Hopper", nil, nil)

	h.run(t,
		pick("View Employees by Manager"), pick("Ada Lovelace"),
		pick("Exit"),
	)

	assert.Equal(t, []string{"Ada Lovelace"}, labels(h.prompter.choicesFor("Whose reports do you want to see?")))

	out := h.out.String()
	assert.Contains(t, out, "Babbage")
	assert.NotContains(t, out, "Hopper")
}

func TestSession_ViewByDepartment(t *testing.T) {
	h := newHarness(t)
	eng := h.department(t, "Engineering")
	sales := h.department(t, "Sales")
	engineer := h.role(t, "Engineer", 9000000, eng.ID)
	rep := h.role(t, "Sales Rep", 6000000, sales.ID)
	h.employee(t, "Ada", "Lovelace", &engineer.ID, nil)
	h.employee(t, "Dale", "Carnegie", &rep.ID, nil)

	h.run(t,
		pick("View Employees by Department"), pick("Sales"),
		pick("Exit"),
	)

	out := h.out.String()
	assert.Contains(t, out, "Carnegie")
	assert.NotContains(t, out, "Lovelace")
}

func TestSession_DeleteRoleLeavesTitleEmpty(t *testing.T) {
	h := newHarness(t)
	eng := h.department(t, "Engineering")
	role := h.role(t, "Engineer", 9000000, eng.ID)
	h.employee(t, "Ada", "Lovelace", &role.ID, nil)

	h.run(t,
		pick("Delete Departments | Roles | Employees"), pick("Role"), pick("Engineer"), confirm(true),
		pick("View all employees"),
		pick("Exit"),
	)

	out := h.out.String()
	assert.Contains(t, out, "Deleted role Engineer (1 employee(s) left without a role)")
	assert.Contains(t, out, "Lovelace")

	views, err := h.svcs.Employees.ListViews(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Title)

	roleChoices := h.prompter.choicesFor("Which role do you want to delete?")
	assert.Equal(t, prompt.KindBack, roleChoices[len(roleChoices)-1].Kind)
}

func TestSession_DeleteRoleDeclined(t *testing.T) {
	h := newHarness(t)
	eng := h.department(t, "Engineering")
	role := h.role(t, "Engineer", 9000000, eng.ID)
	h.employee(t, "Ada", "Lovelace", &role.ID, nil)

	h.run(t,
		pick("Delete Departments | Roles | Employees"), pick("Role"), pick("Engineer"), confirm(false),
		pick("Exit"),
	)

	roles, err := h.svcs.Roles.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, roles, 1)
	assert.Contains(t, h.out.String(), "Kept role Engineer")
}

func TestSession_DeleteDepartmentWithRolesIsRejected(t *testing.T) {
	h := newHarness(t)
	eng := h.department(t, "Engineering")
	h.role(t, "Engineer", 9000000, eng.ID)

	h.run(t,
		pick("Delete Departments | Roles | Employees"), pick("Department"), pick("Engineering"),
		pick("Exit"),
	)

	assert.Contains(t, h.out.String(), "department still has roles")
	depts, err := h.svcs.Departments.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, depts, 1)
}

func TestSession_DeleteEmployeeDetachesReports(t *testing.T) {
	h := newHarness(t)
	a := h.employee(t, "Ada", "Lovelace", nil, nil)
	b := h.employee(t, "Charles", "Babbage", nil, &a.ID)

	h.run(t,
		pick("Delete Departments | Roles | Employees"), pick("Employee"), pick("Ada Lovelace"), confirm(true),
		pick("Exit"),
	)

	assert.Contains(t, h.out.String(), "Deleted Ada Lovelace")
	emps, err := h.svcs.Employees.List(context.Background())
	require.NoError(t, err)
	require.Len(t, emps, 1)
	assert.Equal(t, b.ID, emps[0].ID)
	assert.Nil(t, emps[0].ManagerID)
}

func TestSession_DeleteStaleRowIsReported(t *testing.T) {
	h := newHarness(t)
	h.department(t, "Engineering")
	sales := h.department(t, "Sales")

	removeSales := answer{kind: answerSelect, text: "Sales", before: func() {
		require.NoError(t, h.svcs.Departments.Delete(context.Background(), sales.ID))
	}}

	h.run(t,
		pick("Delete Departments | Roles | Employees"), pick("Department"), removeSales,
		pick("Exit"),
	)

	assert.Contains(t, h.out.String(), "department not found")
}

func TestSession_GoBack(t *testing.T) {
	h := newHarness(t)
	h.department(t, "Engineering")

	h.run(t,
		pick("Delete Departments | Roles | Employees"), pick("Department"), pick("Go Back"),
		pick("Go Back"),
		pick("Exit"),
	)

	var messages []string
	for _, s := range h.prompter.shown {
		messages = append(messages, s.message)
	}
	assert.Equal(t, []string{
		"What would you like to do?",
		"What would you like to delete?",
		"Which department do you want to delete?",
		"What would you like to delete?",
		"What would you like to do?",
	}, messages)

	deptChoices := h.prompter.choicesFor("Which department do you want to delete?")
	assert.Equal(t, []string{"Engineering", "Go Back"}, labels(deptChoices))
}

func TestSession_NothingToDo(t *testing.T) {
	h := newHarness(t)

	h.run(t,
		pick("Delete Departments | Roles | Employees"), pick("Employee"),
		pick("Add a role"),
		pick("View the total utilized budget of a department"),
		pick("View all departments"),
		pick("Exit"),
	)

	out := h.out.String()
	assert.Contains(t, out, "there are no employees to delete")
	assert.Contains(t, out, "add a department first")
	assert.Contains(t, out, "No rows.")
}

func TestSession_BudgetWithoutEmployees(t *testing.T) {
	h := newHarness(t)
	eng := h.department(t, "Engineering")
	h.role(t, "Engineer", 9000000, eng.ID)

	h.run(t,
		pick("View the total utilized budget of a department"), pick("Engineering"),
		pick("Exit"),
	)

	assert.Contains(t, h.out.String(), "Engineering has no employees; utilized budget 0.00")
}

func TestSession_AddManager(t *testing.T) {
	h := newHarness(t)
	eng := h.department(t, "Engineering")
	role := h.role(t, "Engineer", 9000000, eng.ID)
	a := h.employee(t, "Ada", "Lovelace", &role.ID, nil)
	b := h.employee(t, "Charles", "Babbage", &role.ID, nil)

	h.run(t,
		pick("Add a Manager"), pick("Engineering"), pick("Charles Babbage"), pick("Ada Lovelace"),
		pick("Add a Manager"), pick("Engineering"), pick("Ada Lovelace"), pick("Charles Babbage"),
		pick("Exit"),
	)

	out := h.out.String()
	assert.Contains(t, out, "Charles Babbage now reports to Ada Lovelace")
	assert.Contains(t, out, domain.ErrManagerCycle.Error())

	candidates := h.prompter.choicesFor("Who is the employee's manager?")
	assert.Equal(t, []string{"None", "Charles Babbage"}, labels(candidates))

	got, err := h.svcs.Employees.ListByManager(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}

func TestSession_PromoteAndUpdateRole(t *testing.T) {
	h := newHarness(t)
	eng := h.department(t, "Engineering")
	engineer := h.role(t, "Engineer", 9000000, eng.ID)
	h.role(t, "Lead Engineer", 11000000, eng.ID)
	h.role(t, "Engineering Manager", 15000000, eng.ID)
	h.employee(t, "Ada", "Lovelace", &engineer.ID, nil)

	h.run(t,
		pick("Update an employee role"), pick("Ada Lovelace"), pick("Lead Engineer"),
		pick("Promote an employee to a manager role"), pick("Ada Lovelace"), pick("Engineering Manager"),
		pick("Exit"),
	)

	assert.Equal(t, []string{"Engineering Manager"},
		labels(h.prompter.choicesFor("Which manager role do they take?")))

	out := h.out.String()
	assert.Contains(t, out, "Updated Ada Lovelace's role to Lead Engineer")
	assert.Contains(t, out, "Promoted Ada Lovelace to Engineering Manager")

	views, err := h.svcs.Employees.ListViews(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Title)
	assert.Equal(t, "Engineering Manager", *views[0].Title)
}

func TestSession_PromoteWithoutManagerRole(t *testing.T) {
	h := newHarness(t)
	h.employee(t, "Ada", "Lovelace", nil, nil)

	h.run(t,
		pick("Promote an employee to a manager role"),
		pick("Exit"),
	)

	assert.Contains(t, h.out.String(), `there is no role with "manager" in its title`)
}

func TestSession_InterruptedInputEndsSession(t *testing.T) {
	h := newHarness(t)

	// the script ends while the department name is being asked for
	h.run(t, pick("Add a department"))

	assert.Contains(t, h.out.String(), "Goodbye!")
	depts, err := h.svcs.Departments.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, depts)
}

func TestSession_CancelledContext(t *testing.T) {
	h := newHarness(t)
	s := New(h.svcs, h.prompter, h.out, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.Run(ctx))
	assert.Equal(t, StateTerminated, s.State())
	assert.Empty(t, h.prompter.shown)
}

type panickingDepartments struct {
	service.DepartmentService
}

func (panickingDepartments) List(context.Context) ([]domain.Department, error) {
	panic("boom")
}

func TestSession_PanicIsReported(t *testing.T) {
	h := newHarness(t)
	h.svcs.Departments = panickingDepartments{h.svcs.Departments}

	h.run(t,
		pick("Add a role"),
		pick("Exit"),
	)

	assert.Contains(t, h.out.String(), `Something went wrong in "add_role"`)
}
