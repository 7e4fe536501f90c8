package domain

// Category is a static reference entry used to classify transactions.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Account is a static reference entry naming where money is held.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var categories = []Category{
	{ID: "income", Name: "Income", Icon: "💰"},
	{ID: "salary", Name: "Salary", Icon: "💼"},
	{ID: "freelance", Name: "Freelance", Icon: "🎯"},
	{ID: "investment", Name: "Investment", Icon: "📈"},
	{ID: "other_income", Name: "Other Income", Icon: "💵"},
	{ID: "expense", Name: "General", Icon: "📦"},
	{ID: "food", Name: "Food", Icon: "🍔"},
	{ID: "transport", Name: "Transport", Icon: "🚗"},
	{ID: "utilities", Name: "Utilities", Icon: "💡"},
	{ID: "entertainment", Name: "Entertainment", Icon: "🎬"},
	{ID: "shopping", Name: "Shopping", Icon: "🛍️"},
	{ID: "healthcare", Name: "Healthcare", Icon: "🏥"},
	{ID: "education", Name: "Education", Icon: "📚"},
	{ID: "rent", Name: "Rent", Icon: "🏠"},
	{ID: "insurance", Name: "Insurance", Icon: "🛡️"},
	{ID: "tax", Name: "Tax", Icon: "📄"},
	{ID: "office", Name: "Office", Icon: "🏢"},
	{ID: "marketing", Name: "Marketing", Icon: "📢"},
	{ID: "travel", Name: "Travel", Icon: "✈️"},
	{ID: "subscription", Name: "Subscription", Icon: "🔔"},
}

var accounts = []Account{
	{ID: "cash", Name: DefaultAccount},
	{ID: "bank", Name: "Bank"},
	{ID: "credit_card", Name: "Credit Card"},
	{ID: "upi", Name: "UPI"},
	{ID: "wallet", Name: "Wallet"},
}

// Categories returns a copy of the category reference list.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// Accounts returns a copy of the account reference list.
func Accounts() []Account {
	return append([]Account(nil), accounts...)
}
