package session

// State is a node of the menu state machine.
type State int

const (
	StateMainMenu State = iota
	StateViewDepartments
	StateViewRoles
	StateViewEmployees
	StateAddDepartment
	StateAddRole
	StateAddEmployee
	StateAddManager
	StatePromoteManager
	StateUpdateEmployeeRole
	StateViewByManager
	StateViewByDepartment
	StateDeleteMenu
	StateDeleteDepartment
	StateDeleteRole
	StateDeleteEmployee
	StateViewBudget
	StateTerminated
)

var stateNames = map[State]string{
	StateMainMenu:           "main_menu",
	StateViewDepartments:    "view_departments",
	StateViewRoles:          "view_roles",
	StateViewEmployees:      "view_employees",
	StateAddDepartment:      "add_department",
	StateAddRole:            "add_role",
	StateAddEmployee:        "add_employee",
	StateAddManager:         "add_manager",
	StatePromoteManager:     "promote_manager",
	StateUpdateEmployeeRole: "update_employee_role",
	StateViewByManager:      "view_by_manager",
	StateViewByDepartment:   "view_by_department",
	StateDeleteMenu:         "delete_menu",
	StateDeleteDepartment:   "delete_department",
	StateDeleteRole:         "delete_role",
	StateDeleteEmployee:     "delete_employee",
	StateViewBudget:         "view_budget",
	StateTerminated:         "terminated",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// menuEntry is one line of a menu and the state it leads to.
type menuEntry struct {
	label string
	next  State
}

// Labels are the ones operators already know from the original tool.
var mainMenu = []menuEntry{
	{"View all departments", StateViewDepartments},
	{"View all roles", StateViewRoles},
	{"View all employees", StateViewEmployees},
	{"Add a department", StateAddDepartment},
	{"Add a role", StateAddRole},
	{"Add an employee", StateAddEmployee},
	{"Add a Manager", StateAddManager},
	{"Promote an employee to a manager role", StatePromoteManager},
	{"Update an employee role", StateUpdateEmployeeRole},
	{"View Employees by Manager", StateViewByManager},
	{"View Employees by Department", StateViewByDepartment},
	{"Delete Departments | Roles | Employees", StateDeleteMenu},
	{"View the total utilized budget of a department", StateViewBudget},
	{"Exit", StateTerminated},
}

var deleteMenu = []menuEntry{
	{"Department", StateDeleteDepartment},
	{"Role", StateDeleteRole},
	{"Employee", StateDeleteEmployee},
}
