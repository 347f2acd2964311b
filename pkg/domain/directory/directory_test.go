package directory

import "testing"

func TestContact_BelongsTo(t *testing.T) {
	tests := []struct {
		name    string
		contact Contact
		project string
		want    bool
	}{
		{"direct project", Contact{ProjectID: "p1"}, "p1", true},
		{"listed project", Contact{ProjectIDs: []string{"p2", "p3"}}, "p3", true},
		{"all projects", Contact{ProjectIDs: []string{AllProjects}}, "p9", true},
		{"other project", Contact{ProjectID: "p1", ProjectIDs: []string{"p2"}}, "p3", false},
		{"empty project id", Contact{ProjectIDs: []string{AllProjects}}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.contact.BelongsTo(tt.project); got != tt.want {
				t.Errorf("BelongsTo(%q) = %v, want %v", tt.project, got, tt.want)
			}
		})
	}
}

func TestContactsFor(t *testing.T) {
	contacts := []Contact{
		{ID: "1", Name: "Yael", ProjectID: "p1"},
		{ID: "2", Name: "Avi", ProjectIDs: []string{AllProjects}},
		{ID: "3", Name: "Dana", ProjectID: "p2"},
	}
	got := ContactsFor(contacts, "p1")
	if len(got) != 2 || got[0].Name != "Avi" || got[1].Name != "Yael" {
		t.Errorf("ContactsFor(p1) = %+v, want [Avi Yael]", got)
	}
}

func TestUpcoming(t *testing.T) {
	meetings := []Meeting{
		{ID: "past", Date: "2024-01-01"},
		{ID: "later", Date: "2024-02-10", Time: "09:00"},
		{ID: "today-late", Date: "2024-02-01", Time: "15:00"},
		{ID: "today-early", Date: "2024-02-01", Time: "08:30"},
		{ID: "bad", Date: "soon"},
	}
	got := Upcoming(meetings, "2024-02-01")
	want := []string{"today-early", "today-late", "later"}
	if len(got) != len(want) {
		t.Fatalf("Upcoming() returned %d meetings, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("Upcoming()[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}
