// Package session runs the interactive menu loop: every operation fetches
// its reference lists, prompts the operator, issues one read or mutation,
// reports the outcome and returns to the main menu.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/employee-tracker/internal/console"
	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/middleware"
	"github.com/employee-tracker/internal/prompt"
	"github.com/employee-tracker/internal/service"
	"github.com/employee-tracker/internal/store"
)

// errGoBack is returned by a delete operation when the operator picks "Go Back".
var errGoBack = errors.New("go back")

// Services are the dependencies of the operation handlers.
type Services struct {
	Departments service.DepartmentService
	Roles       service.RoleService
	Employees   service.EmployeeService
}

// Session is one operator's run of the menu loop.
type Session struct {
	departments service.DepartmentService
	roles       service.RoleService
	employees   service.EmployeeService

	prompter prompt.Prompter
	out      *console.Printer
	logger   *slog.Logger

	state    State
	handlers map[State]middleware.Handler
}

// New creates a session positioned at the main menu.
func New(svcs Services, prompter prompt.Prompter, w io.Writer, logger *slog.Logger) *Session {
	s := &Session{
		departments: svcs.Departments,
		roles:       svcs.Roles,
		employees:   svcs.Employees,
		prompter:    prompter,
		out:         console.New(w),
		logger:      logger,
		state:       StateMainMenu,
	}

	ops := map[State]middleware.Handler{
		StateViewDepartments:    s.viewDepartments,
		StateViewRoles:          s.viewRoles,
		StateViewEmployees:      s.viewEmployees,
		StateAddDepartment:      s.addDepartment,
		StateAddRole:            s.addRole,
		StateAddEmployee:        s.addEmployee,
		StateAddManager:         s.addManager,
		StatePromoteManager:     s.promoteManager,
		StateUpdateEmployeeRole: s.updateEmployeeRole,
		StateViewByManager:      s.viewByManager,
		StateViewByDepartment:   s.viewByDepartment,
		StateDeleteDepartment:   s.deleteDepartment,
		StateDeleteRole:         s.deleteRole,
		StateDeleteEmployee:     s.deleteEmployee,
		StateViewBudget:         s.viewBudget,
	}

	s.handlers = make(map[State]middleware.Handler, len(ops))
	for state, h := range ops {
		s.handlers[state] = middleware.Chain(state.String(), h,
			middleware.Recoverer(logger),
			middleware.Logger(logger),
		)
	}
	return s
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Run drives the loop until the operator exits, the input ends or ctx is
// cancelled. Operation failures are reported and never end the loop; an
// error is returned only when the menu itself cannot be shown.
func (s *Session) Run(ctx context.Context) error {
	for s.state != StateTerminated {
		if ctx.Err() != nil {
			s.terminate()
			return nil
		}

		next, err := s.step(ctx)
		if err != nil {
			if errors.Is(err, prompt.ErrInterrupted) {
				s.terminate()
				return nil
			}
			s.out.Error("%v", err)
			s.logger.Error("session aborted", slog.String("state", s.state.String()), slog.Any("error", err))
			s.state = StateTerminated
			return err
		}

		s.logger.Debug("state transition", slog.String("from", s.state.String()), slog.String("to", next.String()))
		s.state = next
		if next == StateTerminated {
			s.out.Info("Goodbye!")
		}
	}
	return nil
}

func (s *Session) terminate() {
	s.state = StateTerminated
	s.out.Info("Goodbye!")
}

// step runs the current state and returns the next one.
func (s *Session) step(ctx context.Context) (State, error) {
	switch s.state {
	case StateMainMenu:
		return s.menu(ctx, "What would you like to do?", mainMenu, false)
	case StateDeleteMenu:
		return s.menu(ctx, "What would you like to delete?", deleteMenu, true)
	}

	h, ok := s.handlers[s.state]
	if !ok {
		return StateTerminated, fmt.Errorf("no handler for state %s", s.state)
	}

	err := h(ctx)
	switch {
	case err == nil:
		return StateMainMenu, nil
	case errors.Is(err, errGoBack):
		return StateDeleteMenu, nil
	case errors.Is(err, prompt.ErrInterrupted):
		return StateTerminated, err
	}
	s.reportError(err)
	return StateMainMenu, nil
}

func (s *Session) menu(ctx context.Context, message string, entries []menuEntry, back bool) (State, error) {
	choices := make([]prompt.Choice, 0, len(entries)+1)
	for i, e := range entries {
		choices = append(choices, prompt.Item(e.label, int64(i)))
	}
	if back {
		choices = append(choices, prompt.Back())
	}

	choice, err := s.prompter.Select(ctx, message, choices)
	if err != nil {
		return StateTerminated, err
	}
	if choice.Kind == prompt.KindBack {
		return StateMainMenu, nil
	}
	return entries[choice.Value].next, nil
}

// reportError tells the operator why the operation was abandoned.
func (s *Session) reportError(err error) {
	var panicErr *middleware.PanicError

	switch {
	case errors.Is(err, domain.ErrNothingToDo):
		s.out.Warning("%v", err)
	case errors.Is(err, domain.ErrDepartmentNotFound),
		errors.Is(err, domain.ErrRoleNotFound),
		errors.Is(err, domain.ErrEmployeeNotFound),
		errors.Is(err, domain.ErrDepartmentHasRoles),
		errors.Is(err, domain.ErrSelfManagement),
		errors.Is(err, domain.ErrManagerCycle),
		errors.Is(err, domain.ErrManagerOutsideDept),
		errors.Is(err, domain.ErrNotManagerRole),
		errors.Is(err, domain.ErrInvalidInput):
		s.out.Error("%v", err)
	case errors.Is(err, store.ErrForeignKeyViolation):
		s.out.Error("The change conflicts with rows that reference it: %v", err)
	case errors.Is(err, store.ErrUniqueViolation):
		s.out.Error("That value already exists: %v", err)
	case errors.Is(err, store.ErrCheckViolation):
		s.out.Error("The value was rejected by the database: %v", err)
	case store.IsConnection(err):
		s.out.Error("Lost the connection to the database: %v", err)
	case errors.As(err, &panicErr):
		s.out.Error("Something went wrong in %q; the details were logged.", panicErr.Operation)
	default:
		s.logger.Error("unexpected error", slog.String("state", s.state.String()), slog.Any("error", err))
		s.out.Error("Unexpected error: %v", err)
	}
}

func nothingToDo(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrNothingToDo, fmt.Sprintf(format, args...))
}
