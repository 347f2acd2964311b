package application

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/finance"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

// FinanceService reports payment totals per project and for the portfolio.
type FinanceService struct {
	payments finance.PaymentStore
	projects planning.ProjectStore
}

func NewFinanceService(payments finance.PaymentStore, projects planning.ProjectStore) *FinanceService {
	return &FinanceService{payments: payments, projects: projects}
}

// PortfolioSummary holds overall and per-project totals.
type PortfolioSummary struct {
	Totals    finance.Totals            `json:"totals"`
	ByProject map[string]finance.Totals `json:"byProject"`
}

// Summary totals the payments of the projects visible to the acting user.
func (s *FinanceService) Summary(ctx context.Context) (PortfolioSummary, error) {
	payments, err := s.visiblePayments(ctx)
	if err != nil {
		return PortfolioSummary{}, err
	}
	return PortfolioSummary{
		Totals:    finance.Summarize(payments),
		ByProject: finance.ByProject(payments),
	}, nil
}

// Project returns the finance view of one project.
func (s *FinanceService) Project(ctx context.Context, projectID string) (finance.ProjectFinance, error) {
	if u, ok := access.UserFrom(ctx); ok && !access.CanView(u, projectID) {
		return finance.ProjectFinance{}, &access.PermissionError{UserID: u.ID, Action: "view", Target: "project " + projectID}
	}
	projects, err := s.projects.List(ctx)
	if err != nil {
		return finance.ProjectFinance{}, fmt.Errorf("list projects: %w", err)
	}
	var project *planning.Project
	for i := range projects {
		if projects[i].ID == projectID && !projects[i].IsDeleted {
			project = &projects[i]
			break
		}
	}
	if project == nil {
		return finance.ProjectFinance{}, fmt.Errorf("%w: %s", planning.ErrProjectNotFound, projectID)
	}
	payments, err := s.payments.List(ctx)
	if err != nil {
		return finance.ProjectFinance{}, fmt.Errorf("list payments: %w", err)
	}
	return finance.NewProjectFinance(*project, payments), nil
}

// Record stores a new payment. Only roles that manage payments may do so.
func (s *FinanceService) Record(ctx context.Context, p finance.Payment) (finance.Payment, error) {
	if u, ok := access.UserFrom(ctx); ok {
		if !u.Role.CanManagePayments() || !access.CanView(u, p.ProjectID) {
			return finance.Payment{}, &access.PermissionError{UserID: u.ID, Action: "record", Target: "payment"}
		}
	}
	if err := p.Validate(); err != nil {
		return finance.Payment{}, err
	}
	p.ID = ""
	id, err := s.payments.Create(ctx, p)
	if err != nil {
		return finance.Payment{}, fmt.Errorf("create payment: %w", err)
	}
	p.ID = id
	return p, nil
}

func (s *FinanceService) visiblePayments(ctx context.Context) ([]finance.Payment, error) {
	payments, err := s.payments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	u, ok := access.UserFrom(ctx)
	if !ok {
		return payments, nil
	}
	out := payments[:0]
	for _, p := range payments {
		if access.CanView(u, p.ProjectID) {
			out = append(out, p)
		}
	}
	return out, nil
}
