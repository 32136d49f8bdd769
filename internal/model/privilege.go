package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "sale:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Sale"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Catalog management
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	{Code: "stock:adjust", Name: "Adjust Stock"},
	// Sales
	{Code: "sale:view", Name: "View Sales"},
	{Code: "sale:create", Name: "Create Sale"},
	{Code: "sale:void", Name: "Void Sale"},
	// Cash sessions
	{Code: "cash_session:view", Name: "View Cash Sessions"},
	{Code: "cash_session:open", Name: "Open Cash Session"},
	{Code: "cash_session:close", Name: "Close Cash Session"},
	// Expenses
	{Code: "expense:view", Name: "View Expenses"},
	{Code: "expense:create", Name: "Create Expense"},
	// Reporting
	{Code: "report:view", Name: "View Reports"},
}

// CashierPrivilegeCodes are the privileges granted to the CASHIER role.
var CashierPrivilegeCodes = []string{
	"product:view",
	"sale:view", "sale:create",
	"cash_session:view", "cash_session:open", "cash_session:close",
	"expense:view", "expense:create",
}
