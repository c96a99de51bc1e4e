package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		flags   Flags
		want    Kind
		wantErr error
	}{
		{name: "no role", wantErr: ErrNoRole},
		{name: "student", flags: Flags{IsStudent: true}, want: Student},
		{name: "mentor", flags: Flags{IsMentor: true}, want: Mentor},
		{name: "mentor over student", flags: Flags{IsMentor: true, IsStudent: true}, want: Mentor},
		{name: "admin over all", flags: Flags{IsAdmin: true, IsMentor: true, IsStudent: true}, want: Admin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.flags)
			if err != tt.wantErr {
				t.Errorf("Resolve() error = %v; wantErr %v", err, tt.wantErr)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFor(t *testing.T) {
	admin, err := For(Admin)
	require.NoError(t, err)
	assert.Equal(t, entity.AllTypes, admin.Tabs())
	for _, typ := range entity.AllTypes {
		assert.True(t, admin.CanMutate(typ), typ)
	}

	mentor, err := For(Mentor)
	require.NoError(t, err)
	assert.Equal(t, "mentor", mentor.Kind().String())
	assert.True(t, mentor.CanView(entity.Cohorts))
	assert.False(t, mentor.CanMutate(entity.Cohorts))
	assert.True(t, mentor.CanMutate(entity.Invitations))
	assert.False(t, mentor.CanView(entity.Users))

	student, err := For(Student)
	require.NoError(t, err)
	assert.Equal(t, []entity.Type{entity.Courses, entity.Cohorts, entity.Teams}, student.Tabs())
	for _, typ := range student.Tabs() {
		assert.False(t, student.CanMutate(typ), typ)
	}

	_, err = For(None)
	assert.Equal(t, ErrNoRole, err)
}

func TestInterface_Tabs_isCopy(t *testing.T) {
	admin, _ := For(Admin)
	tabs := admin.Tabs()
	tabs[0] = "changed"
	assert.Equal(t, entity.Courses, admin.Tabs()[0])
}
