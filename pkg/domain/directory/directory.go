// Package directory holds the people and organizations around projects:
// client organizations, contacts and meetings.
package directory

import (
	"context"
	"sort"

	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
)

// AllProjects in Contact.ProjectIDs links a contact to every project.
const AllProjects = "all"

// Organization is a client organization.
type Organization struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	ContactPerson string `json:"contactPerson,omitempty" yaml:"contactPerson,omitempty"`
	Email         string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone         string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Active        bool   `json:"active" yaml:"active"`
	Notes         string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Contact is a person related to one or more projects.
type Contact struct {
	ID             string   `json:"id" yaml:"id"`
	ProjectID      string   `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	ProjectIDs     []string `json:"projectIds,omitempty" yaml:"projectIds,omitempty"`
	OrganizationID string   `json:"organizationId,omitempty" yaml:"organizationId,omitempty"`
	Name           string   `json:"name" yaml:"name"`
	Phone          string   `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email          string   `json:"email,omitempty" yaml:"email,omitempty"`
	Title          string   `json:"title,omitempty" yaml:"title,omitempty"`
	Notes          string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// BelongsTo reports whether the contact is linked to projectID, directly
// or through ProjectIDs (which may contain AllProjects).
func (c Contact) BelongsTo(projectID string) bool {
	if projectID == "" {
		return false
	}
	if c.ProjectID == projectID {
		return true
	}
	for _, id := range c.ProjectIDs {
		if id == projectID || id == AllProjects {
			return true
		}
	}
	return false
}

// ContactsFor returns the contacts linked to projectID, sorted by name.
func ContactsFor(contacts []Contact, projectID string) []Contact {
	var out []Contact
	for _, c := range contacts {
		if c.BelongsTo(projectID) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Meeting is a scheduled meeting, optionally tied to a project and contact.
type Meeting struct {
	ID             string `json:"id" yaml:"id"`
	ProjectID      string `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	OrganizationID string `json:"organizationId,omitempty" yaml:"organizationId,omitempty"`
	ContactID      string `json:"contactId,omitempty" yaml:"contactId,omitempty"`
	Title          string `json:"title" yaml:"title"`
	Date           string `json:"date" yaml:"date"`
	Time           string `json:"time,omitempty" yaml:"time,omitempty"`
	Notes          string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Upcoming returns meetings on or after today, earliest first. Meetings
// with unparseable dates are skipped.
func Upcoming(meetings []Meeting, today string) []Meeting {
	var out []Meeting
	for _, m := range meetings {
		if _, ok := calendar.ParseDate(m.Date); !ok {
			continue
		}
		if calendar.Compare(m.Date, today) >= 0 {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out
}

// ContactStore persists contacts.
type ContactStore interface {
	Create(ctx context.Context, c Contact) (string, error)
	List(ctx context.Context) ([]Contact, error)
}

// MeetingStore persists meetings.
type MeetingStore interface {
	Create(ctx context.Context, m Meeting) (string, error)
	List(ctx context.Context) ([]Meeting, error)
}
