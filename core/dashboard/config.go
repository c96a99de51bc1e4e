package dashboard

import (
	"fmt"

	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/schema"
)

// Tab is the configuration of one manageable entity type.
// Fields and Columns are derived again on every render so that lookups see the current collections.
type Tab struct {
	Type    entity.Type
	Label   string
	Fields  func(lk Lookup) []schema.Field
	Columns func(lk Lookup) []schema.Column
}

// Registry is the ordered set of tabs; adding an entity type means registering one more Tab.
type Registry struct {
	tabs   []Tab
	byType map[entity.Type]int
}

func NewRegistry(tabs ...Tab) (*Registry, error) {
	r := &Registry{byType: make(map[entity.Type]int, len(tabs))}
	for _, tab := range tabs {
		if _, ok := r.byType[tab.Type]; ok {
			return nil, fmt.Errorf("duplicate tab %q", tab.Type)
		}
		if tab.Fields == nil || tab.Columns == nil {
			return nil, fmt.Errorf("tab %q: fields and columns are required", tab.Type)
		}
		r.byType[tab.Type] = len(r.tabs)
		r.tabs = append(r.tabs, tab)
	}
	return r, nil
}

func (r *Registry) Tab(t entity.Type) (Tab, bool) {
	i, ok := r.byType[t]
	if !ok {
		return Tab{}, false
	}
	return r.tabs[i], true
}

func (r *Registry) Tabs() []Tab {
	return append([]Tab(nil), r.tabs...)
}

func static(fields ...schema.Field) func(Lookup) []schema.Field {
	return func(Lookup) []schema.Field { return fields }
}

// DefaultRegistry holds the LMS entity types; timestamps are formatted with dateFormat.
func DefaultRegistry(dateFormat string) *Registry {
	created := func() schema.Column {
		return schema.Column{Key: "created_at", Label: "Created", Render: Timestamp("created_at", dateFormat)}
	}

	r, err := NewRegistry(
		Tab{
			Type:  entity.Courses,
			Label: "Courses",
			Fields: static(
				schema.Field{Name: "name", Kind: schema.KindText, Placeholder: "Course name", Required: true},
				schema.Field{Name: "description", Kind: schema.KindTextarea, Placeholder: "Description", Required: true},
			),
			Columns: func(Lookup) []schema.Column {
				return []schema.Column{
					{Key: "name", Label: "Name"},
					{Key: "description", Label: "Description"},
					created(),
				}
			},
		},
		Tab{
			Type:  entity.Cohorts,
			Label: "Cohorts",
			Fields: func(lk Lookup) []schema.Field {
				return []schema.Field{
					{Name: "name", Kind: schema.KindText, Placeholder: "Cohort name", Required: true},
					{Name: "course", Kind: schema.KindSelect, Placeholder: "Select course", Required: true,
						Options: OptionsFrom(lk, entity.Courses, "name")},
					{Name: "start_date", Kind: schema.KindDate, Placeholder: "Start date"},
					{Name: "end_date", Kind: schema.KindDate, Placeholder: "End date"},
				}
			},
			Columns: func(lk Lookup) []schema.Column {
				return []schema.Column{
					{Key: "name", Label: "Name"},
					{Key: "course", Label: "Course", Render: ForeignKey(lk, "course", entity.Courses, "Course", "name")},
					{Key: "start_date", Label: "Start"},
					{Key: "end_date", Label: "End"},
					created(),
				}
			},
		},
		Tab{
			Type:  entity.Teams,
			Label: "Teams",
			Fields: func(lk Lookup) []schema.Field {
				return []schema.Field{
					{Name: "name", Kind: schema.KindText, Placeholder: "Team name", Required: true},
					{Name: "cohort", Kind: schema.KindSelect, Placeholder: "Select cohort", Required: true,
						Options: OptionsFrom(lk, entity.Cohorts, "name")},
					{Name: "description", Kind: schema.KindTextarea, Placeholder: "Description"},
				}
			},
			Columns: func(lk Lookup) []schema.Column {
				return []schema.Column{
					{Key: "name", Label: "Name"},
					{Key: "cohort", Label: "Cohort", Render: ForeignKey(lk, "cohort", entity.Cohorts, "Cohort", "name")},
					{Key: "description", Label: "Description"},
					created(),
				}
			},
		},
		Tab{
			Type:  entity.Invitations,
			Label: "Invitations",
			Fields: func(lk Lookup) []schema.Field {
				return []schema.Field{
					{Name: "email", Kind: schema.KindEmail, Placeholder: "Email address", Required: true},
					{Name: "team", Kind: schema.KindSelect, Placeholder: "Select team", Required: true,
						Options: OptionsFrom(lk, entity.Teams, "name")},
				}
			},
			Columns: func(lk Lookup) []schema.Column {
				return []schema.Column{
					{Key: "email", Label: "Email"},
					{Key: "team", Label: "Team", Render: ForeignKey(lk, "team", entity.Teams, "Team", "name")},
					{Key: "accepted", Label: "Status", Render: Badge("accepted", "Accepted", "Pending")},
					created(),
				}
			},
		},
		Tab{
			Type:  entity.Organizations,
			Label: "Organizations",
			Fields: static(
				schema.Field{Name: "name", Kind: schema.KindText, Placeholder: "Organization name", Required: true},
				schema.Field{Name: "slug", Kind: schema.KindText, Placeholder: "Slug"},
				schema.Field{Name: "description", Kind: schema.KindTextarea, Placeholder: "Description"},
			),
			Columns: func(Lookup) []schema.Column {
				return []schema.Column{
					{Key: "name", Label: "Name"},
					{Key: "slug", Label: "Slug"},
					created(),
				}
			},
		},
		Tab{
			Type:  entity.Users,
			Label: "Users",
			Fields: static(
				schema.Field{Name: "email", Kind: schema.KindEmail, Placeholder: "Email address", Required: true},
				schema.Field{Name: "first_name", Kind: schema.KindText, Placeholder: "First name"},
				schema.Field{Name: "last_name", Kind: schema.KindText, Placeholder: "Last name"},
				schema.Field{Name: "role", Kind: schema.KindSelect, Placeholder: "Select role", Required: true,
					Options: []schema.Option{
						{Value: "student", Label: "Student"},
						{Value: "mentor", Label: "Mentor"},
						{Value: "admin", Label: "Admin"},
					}},
			),
			Columns: func(Lookup) []schema.Column {
				return []schema.Column{
					{Key: "email", Label: "Email"},
					{Key: "first_name", Label: "First name"},
					{Key: "last_name", Label: "Last name"},
					{Key: "role", Label: "Role"},
					created(),
				}
			},
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}
