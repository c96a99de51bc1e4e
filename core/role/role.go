// Package role resolves which dashboard a signed-in user gets.
package role

import (
	"github.com/pkg/errors"

	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
)

var ErrNoRole = errors.New("user has no dashboard role")

// Kind is the closed set of dashboard roles.
type Kind int

const (
	None Kind = iota
	Student
	Mentor
	Admin
)

var kindNames = map[Kind]string{
	Student: "student",
	Mentor:  "mentor",
	Admin:   "admin",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "none"
}

// Flags are the role claims carried by a session token.
type Flags struct {
	IsAdmin   bool
	IsMentor  bool
	IsStudent bool
}

// Resolve picks the highest-priority role: admin > mentor > student.
func Resolve(f Flags) (Kind, error) {
	switch {
	case f.IsAdmin:
		return Admin, nil
	case f.IsMentor:
		return Mentor, nil
	case f.IsStudent:
		return Student, nil
	default:
		return None, ErrNoRole
	}
}

// Interface is the view of the dashboard a role is given.
type Interface interface {
	Kind() Kind
	Title() string
	// Tabs lists the entity types shown, in tab order.
	Tabs() []entity.Type
	CanView(t entity.Type) bool
	CanMutate(t entity.Type) bool
}

type policy struct {
	kind    Kind
	title   string
	tabs    []entity.Type
	mutable map[entity.Type]bool
}

func (p *policy) Kind() Kind    { return p.kind }
func (p *policy) Title() string { return p.title }

func (p *policy) Tabs() []entity.Type {
	return append([]entity.Type(nil), p.tabs...)
}

func (p *policy) CanView(t entity.Type) bool {
	for _, tab := range p.tabs {
		if tab == t {
			return true
		}
	}
	return false
}

func (p *policy) CanMutate(t entity.Type) bool {
	return p.CanView(t) && p.mutable[t]
}

var policies = map[Kind]*policy{
	Admin: {
		kind:  Admin,
		title: "Admin Dashboard",
		tabs:  entity.AllTypes,
		mutable: map[entity.Type]bool{
			entity.Courses:       true,
			entity.Cohorts:       true,
			entity.Teams:         true,
			entity.Invitations:   true,
			entity.Organizations: true,
			entity.Users:         true,
		},
	},
	Mentor: {
		kind:  Mentor,
		title: "Mentor Dashboard",
		tabs:  []entity.Type{entity.Cohorts, entity.Teams, entity.Invitations},
		mutable: map[entity.Type]bool{
			entity.Teams:       true,
			entity.Invitations: true,
		},
	},
	Student: {
		kind:  Student,
		title: "Student Dashboard",
		tabs:  []entity.Type{entity.Courses, entity.Cohorts, entity.Teams},
	},
}

// For returns the dashboard interface of k.
func For(k Kind) (Interface, error) {
	p, ok := policies[k]
	if !ok {
		return nil, ErrNoRole
	}
	return p, nil
}

// FromFlags resolves the role of the token claims and returns its interface.
func FromFlags(f Flags) (Interface, error) {
	k, err := Resolve(f)
	if err != nil {
		return nil, err
	}
	return For(k)
}
