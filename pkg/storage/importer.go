package storage

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/dependency"
	"github.com/felixgeelhaar/nihulit/pkg/domain/directory"
	"github.com/felixgeelhaar/nihulit/pkg/domain/finance"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

//go:embed export_schema.json
var exportSchemaJSON string

var exportSchemaLoader = gojsonschema.NewStringLoader(exportSchemaJSON)

// ErrInvalidExport is returned for data that does not match the export
// schema.
var ErrInvalidExport = errors.New("invalid export")

// SchemaError lists the schema violations of an export.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid export: %s", strings.Join(e.Problems, "; "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidExport
}

// Export is a full JSON dump of the workspace data. Ids are kept on import
// so that references between records stay valid.
type Export struct {
	Tasks         []planning.Task          `json:"tasks,omitempty"`
	Projects      []planning.Project       `json:"projects,omitempty"`
	Users         []access.User            `json:"users,omitempty"`
	Payments      []finance.Payment        `json:"payments,omitempty"`
	Contacts      []directory.Contact      `json:"contacts,omitempty"`
	Meetings      []directory.Meeting      `json:"meetings,omitempty"`
	Organizations []directory.Organization `json:"organizations,omitempty"`
}

// ParseExport validates data against the export schema, decodes it and
// normalizes legacy labels. Exports whose task dependencies form a cycle
// are rejected.
func ParseExport(data []byte) (*Export, error) {
	result, err := gojsonschema.Validate(exportSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}
	if !result.Valid() {
		se := &SchemaError{}
		for _, d := range result.Errors() {
			se.Problems = append(se.Problems, d.String())
		}
		return nil, se
	}

	var exp Export
	if err := json.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}
	for i := range exp.Users {
		exp.Users[i].Role = access.NormalizeRole(string(exp.Users[i].Role))
	}
	for i := range exp.Payments {
		p := &exp.Payments[i]
		if p.Type, err = finance.ParsePaymentType(string(p.Type)); err != nil {
			return nil, fmt.Errorf("%w: payment %s: %v", ErrInvalidExport, p.ID, err)
		}
		if p.Status == "" {
			p.Status = finance.StatusPlanned
		} else if p.Status, err = finance.ParsePaymentStatus(string(p.Status)); err != nil {
			return nil, fmt.Errorf("%w: payment %s: %v", ErrInvalidExport, p.ID, err)
		}
	}
	for i := range exp.Projects {
		p := &exp.Projects[i]
		if p.Status == "" {
			p.Status = planning.ProjectPlanning
		} else if p.Status, err = planning.ParseProjectStatus(string(p.Status)); err != nil {
			return nil, fmt.Errorf("%w: project %s: %v", ErrInvalidExport, p.ID, err)
		}
	}
	for i := range exp.Tasks {
		if exp.Tasks[i].Status == "" {
			exp.Tasks[i].Status = planning.StatusNotStarted
		}
		if exp.Tasks[i].Priority == "" {
			exp.Tasks[i].Priority = planning.PriorityMedium
		}
	}
	if dependency.FromTasks(exp.Tasks).HasCycle() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExport, dependency.ErrCyclicDependency)
	}
	return &exp, nil
}

// ImportReport counts the records written per collection.
type ImportReport map[string]int

// Import writes every record of exp into stores, replacing records with the
// same id.
func Import(ctx context.Context, stores *Stores, exp *Export) (ImportReport, error) {
	report := ImportReport{}
	if err := putAll(ctx, stores.Projects, exp.Projects, report, CollectionProjects); err != nil {
		return report, err
	}
	if err := putAll(ctx, stores.Tasks.Collection, exp.Tasks, report, CollectionTasks); err != nil {
		return report, err
	}
	if err := putAll(ctx, stores.Users, exp.Users, report, CollectionUsers); err != nil {
		return report, err
	}
	if err := putAll(ctx, stores.Payments, exp.Payments, report, CollectionPayments); err != nil {
		return report, err
	}
	if err := putAll(ctx, stores.Contacts, exp.Contacts, report, CollectionContacts); err != nil {
		return report, err
	}
	if err := putAll(ctx, stores.Meetings, exp.Meetings, report, CollectionMeetings); err != nil {
		return report, err
	}
	if err := putAll(ctx, stores.Organizations, exp.Organizations, report, CollectionOrganizations); err != nil {
		return report, err
	}
	return report, nil
}

func putAll[T any](ctx context.Context, c *Collection[T], items []T, report ImportReport, name string) error {
	for _, item := range items {
		if _, err := c.Put(ctx, item); err != nil {
			return fmt.Errorf("import %s: %w", name, err)
		}
		report[name]++
	}
	return nil
}
