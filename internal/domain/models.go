package domain

// Department is a unit of the organisation. Roles belong to exactly one department.
type Department struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"column:department_name;type:varchar(200);not null"`
}

// TableName sets the table name used by GORM.
func (Department) TableName() string {
	return "departments"
}

// Role is a job title with a salary inside a department.
type Role struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Title        string `gorm:"type:varchar(200);not null"`
	Salary       Money  `gorm:"column:salary_cents;not null"`
	DepartmentID int64  `gorm:"not null;index"`
}

func (Role) TableName() string {
	return "roles"
}

// Employee holds at most one role and reports to at most one other employee.
type Employee struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null"`
	RoleID    *int64 `gorm:"index"`
	ManagerID *int64 `gorm:"index"`
}

func (Employee) TableName() string {
	return "employee"
}

// FullName returns "first last".
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// RoleView is a role joined to its department.
type RoleView struct {
	ID             int64
	Title          string
	DepartmentName string
	SalaryCents    Money
}

// EmployeeView is an employee left-joined to role, department and manager.
// Nullable columns stay nil when the reference is missing.
type EmployeeView struct {
	ID             int64
	FirstName      string
	LastName       string
	Title          *string
	DepartmentName *string
	SalaryCents    *Money
	ManagerName    *string
}

// ManagerSummary is an employee that at least one other employee reports to.
type ManagerSummary struct {
	ID        int64
	FirstName string
	LastName  string
	Reports   int64
}

// FullName returns "first last".
func (m ManagerSummary) FullName() string {
	return m.FirstName + " " + m.LastName
}

// DepartmentBudget is the utilized budget of a single department.
type DepartmentBudget struct {
	DepartmentID   int64
	DepartmentName string
	Headcount      int64
	TotalCents     Money
}
