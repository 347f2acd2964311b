package finance

import "github.com/felixgeelhaar/nihulit/pkg/domain/planning"

// Totals summarizes a set of payments.
type Totals struct {
	Income     float64 `json:"income"`
	Expense    float64 `json:"expense"`
	Balance    float64 `json:"balance"`
	PlannedOut float64 `json:"plannedOut"`
}

// Summarize computes totals. Income and expense count only paid payments;
// PlannedOut sums the planned amounts of non-cancelled expenses.
func Summarize(payments []Payment) Totals {
	var t Totals
	for _, p := range payments {
		if p.Status == StatusPaid {
			switch p.Type {
			case Income:
				t.Income += p.ActualAmount
			case Expense:
				t.Expense += p.ActualAmount
			}
		}
		if p.Type == Expense && p.Status != StatusCancelled {
			t.PlannedOut += p.PlannedAmount
		}
	}
	t.Balance = t.Income - t.Expense
	return t
}

// ForProject returns the payments of projectID.
func ForProject(payments []Payment, projectID string) []Payment {
	var out []Payment
	for _, p := range payments {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out
}

// ByProject groups totals per project id.
func ByProject(payments []Payment) map[string]Totals {
	groups := make(map[string][]Payment)
	for _, p := range payments {
		groups[p.ProjectID] = append(groups[p.ProjectID], p)
	}
	out := make(map[string]Totals, len(groups))
	for id, ps := range groups {
		out[id] = Summarize(ps)
	}
	return out
}

// ProjectFinance compares a project's targets with its payments.
type ProjectFinance struct {
	ProjectID      string  `json:"projectId"`
	Totals         Totals  `json:"totals"`
	FinancialGoal  float64 `json:"financialGoal"`
	GoalPercent    float64 `json:"goalPercent"`
	PlannedBudget  float64 `json:"plannedBudget"`
	BudgetUsed     float64 `json:"budgetUsed"`
	BudgetVariance float64 `json:"budgetVariance"`
	OverBudget     bool    `json:"overBudget"`
}

// NewProjectFinance builds the finance view of project from its payments.
// GoalPercent is income over the financial goal; budget use is the paid
// expense against the planned budget.
func NewProjectFinance(project planning.Project, payments []Payment) ProjectFinance {
	totals := Summarize(ForProject(payments, project.ID))
	pf := ProjectFinance{
		ProjectID:     project.ID,
		Totals:        totals,
		FinancialGoal: project.FinancialGoal,
		PlannedBudget: project.PlannedBudget,
		BudgetUsed:    totals.Expense,
	}
	if project.FinancialGoal > 0 {
		pf.GoalPercent = totals.Income / project.FinancialGoal * 100
	}
	pf.BudgetVariance = project.PlannedBudget - totals.Expense
	pf.OverBudget = project.PlannedBudget > 0 && pf.BudgetVariance < 0
	return pf
}
