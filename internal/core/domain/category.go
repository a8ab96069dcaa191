package domain

// CategoryType separates income categories from expense categories.
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

// Category labels transactions for reporting. System categories are shared;
// user categories belong to one user.
type Category struct {
	CategoryID   string       `json:"categoryID"` // Primary Key (UUID)
	UserID       string       `json:"userID,omitempty"`
	Name         string       `json:"name"`
	CategoryType CategoryType `json:"categoryType"`
	Color        string       `json:"color"`
	Icon         string       `json:"icon,omitempty"`
	IsSystem     bool         `json:"isSystem"`
	AuditFields
}
