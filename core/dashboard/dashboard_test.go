package dashboard

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mogeshaue/Happy-Fox-sub000/core"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/form"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/role"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/store"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/table"
)

// memEndpoint is a backend collection kept in memory.
type memEndpoint struct {
	mu        sync.Mutex
	items     []map[string]interface{}
	pk        int
	lists     int
	createErr error
	block     chan struct{} // Create waits until closed
}

func (m *memEndpoint) List(context.Context) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	return json.Marshal(m.items)
}

func (m *memEndpoint) Create(_ context.Context, payload map[string]string) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.pk++
	item := map[string]interface{}{"id": m.pk}
	for k, v := range payload {
		item[k] = v
	}
	m.items = append(m.items, item)
	return nil
}

func (m *memEndpoint) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range m.items {
		if strconv.Itoa(item["id"].(int)) == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func newEndpoints() map[entity.Type]*memEndpoint {
	eps := make(map[entity.Type]*memEndpoint, len(entity.AllTypes))
	for _, t := range entity.AllTypes {
		eps[t] = &memEndpoint{}
	}
	return eps
}

func newTestDashboard(t *testing.T, kind role.Kind, eps map[entity.Type]*memEndpoint) *Dashboard {
	endpoints := make(map[entity.Type]store.Endpoint, len(eps))
	for typ, ep := range eps {
		endpoints[typ] = ep
	}
	r, err := role.For(kind)
	require.NoError(t, err)
	d, err := New(DefaultRegistry("2006-01-02"), store.New(endpoints), r, Options{})
	require.NoError(t, err)
	return d
}

func TestNew(t *testing.T) {
	admin := newTestDashboard(t, role.Admin, newEndpoints())
	assert.Equal(t, entity.Courses, admin.Active())
	assert.Len(t, admin.Tabs(), len(entity.AllTypes))

	mentor := newTestDashboard(t, role.Mentor, newEndpoints())
	assert.Equal(t, entity.Cohorts, mentor.Active())

	// tabs without a backend endpoint are hidden
	st := store.New(map[entity.Type]store.Endpoint{entity.Teams: &memEndpoint{}})
	r, _ := role.For(role.Admin)
	d, err := New(DefaultRegistry(""), st, r, Options{})
	require.NoError(t, err)
	require.Len(t, d.Tabs(), 1)
	assert.Equal(t, entity.Teams, d.Active())

	st = store.New(map[entity.Type]store.Endpoint{entity.Users: &memEndpoint{}})
	r, _ = role.For(role.Student)
	_, err = New(DefaultRegistry(""), st, r, Options{})
	assert.Equal(t, ErrNoTabs, err)
}

func TestDashboard_Select(t *testing.T) {
	d := newTestDashboard(t, role.Student, newEndpoints())

	require.NoError(t, d.Select(entity.Teams))
	assert.Equal(t, entity.Teams, d.Active())

	for _, typ := range []entity.Type{entity.Users, "planets"} {
		err := d.Select(typ)
		assert.Equal(t, ErrUnknownTab, errors.Cause(err))
	}
	assert.Equal(t, entity.Teams, d.Active())

	v := d.View()
	assert.Equal(t, []TabView{
		{Type: entity.Courses, Label: "Courses"},
		{Type: entity.Cohorts, Label: "Cohorts"},
		{Type: entity.Teams, Label: "Teams", Active: true},
	}, v.Tabs)
}

func TestDashboard_Mount(t *testing.T) {
	eps := newEndpoints()
	eps[entity.Courses].items = []map[string]interface{}{{"id": 1, "name": "Math"}}
	d := newTestDashboard(t, role.Admin, eps)
	ctx := context.Background()

	require.NoError(t, d.Mount(ctx))
	require.NoError(t, d.Mount(ctx))
	for typ, ep := range eps {
		assert.Equal(t, 1, ep.lists, typ)
	}

	v := d.View()
	require.Len(t, v.Table.Rows, 1)
	assert.Equal(t, "Math", v.Table.Rows[0].Cells[0].Text)
}

func TestDashboard_View_courses(t *testing.T) {
	d := newTestDashboard(t, role.Admin, newEndpoints())
	require.NoError(t, d.Mount(context.Background()))

	v := d.View()
	assert.Equal(t, "Admin Dashboard", v.Title)
	assert.Equal(t, "admin", v.Role)
	assert.Equal(t, "Courses", v.Label)
	assert.True(t, v.CanMutate)
	require.NotNil(t, v.Form)
	assert.Len(t, v.Form.Controls, 2)
	assert.True(t, v.Form.Disabled)
	assert.True(t, v.Table.Empty)
	assert.Equal(t, table.EmptyMessage, v.Table.EmptyMessage)
	assert.Empty(t, v.Error)
}

func TestDashboard_Submit(t *testing.T) {
	eps := newEndpoints()
	d := newTestDashboard(t, role.Admin, eps)
	ctx := context.Background()
	require.NoError(t, d.Mount(ctx))

	// incomplete: nothing is created and the values stay
	err := d.Submit(ctx, url.Values{"name": {"Intro"}})
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Empty(t, eps[entity.Courses].items)
	v := d.View()
	assert.Equal(t, "Intro", v.Form.Controls[0].Value)
	assert.Equal(t, "this field is required", v.Form.Controls[1].Error)

	require.NoError(t, d.Submit(ctx, url.Values{"description": {"An introduction"}}))
	require.Len(t, eps[entity.Courses].items, 1)
	assert.Equal(t, "Intro", eps[entity.Courses].items[0]["name"])

	v = d.View()
	assert.Equal(t, "", v.Form.Controls[0].Value)
	assert.Equal(t, "", v.Form.Controls[1].Value)
	require.Len(t, v.Table.Rows, 1)
	assert.Equal(t, "1", v.Table.Rows[0].ID)
}

func TestDashboard_Submit_pending(t *testing.T) {
	eps := newEndpoints()
	eps[entity.Courses].block = make(chan struct{})
	d := newTestDashboard(t, role.Admin, eps)
	ctx := context.Background()
	require.NoError(t, d.Mount(ctx))

	done := make(chan error, 1)
	go func() {
		done <- d.Submit(ctx, url.Values{"name": {"Intro"}, "description": {"An introduction"}})
	}()

	// the dashboard stays readable while the backend holds the create
	require.Eventually(t, func() bool {
		return d.View().Form.Controls[0].Value == "Intro"
	}, time.Second, 5*time.Millisecond)
	v := d.View()
	assert.True(t, v.Form.Disabled)
	assert.Equal(t, "An introduction", v.Form.Controls[1].Value)
	assert.Equal(t, entity.Courses, d.Active())
	assert.Equal(t, form.ErrBusy, d.Submit(ctx, url.Values{"name": {"Other"}}))

	close(eps[entity.Courses].block)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("submit did not return")
	}

	v = d.View()
	assert.Equal(t, "", v.Form.Controls[0].Value)
	require.Len(t, v.Table.Rows, 1)
	assert.Len(t, eps[entity.Courses].items, 1)
}

func TestDashboard_Peek(t *testing.T) {
	eps := newEndpoints()
	eps[entity.Cohorts].items = []map[string]interface{}{{"id": 1, "name": "C1", "course": 1}}
	d := newTestDashboard(t, role.Admin, eps)
	ctx := context.Background()
	require.NoError(t, d.Mount(ctx))

	err := d.Submit(ctx, url.Values{"name": {"Intro"}})
	require.Error(t, err)

	v, err := d.Peek(entity.Cohorts)
	require.NoError(t, err)
	assert.Equal(t, entity.Cohorts, v.Active)
	require.Len(t, v.Table.Rows, 1)
	require.NotNil(t, v.Form)
	assert.Equal(t, "", v.Form.Controls[0].Value)

	// the active tab and its form are untouched
	assert.Equal(t, entity.Courses, d.Active())
	v = d.View()
	assert.Equal(t, "Intro", v.Form.Controls[0].Value)
	assert.Equal(t, "this field is required", v.Form.Controls[1].Error)

	v, err = d.Peek(entity.Courses)
	require.NoError(t, err)
	assert.Equal(t, "Intro", v.Form.Controls[0].Value)

	_, err = d.Peek("planets")
	assert.Equal(t, ErrUnknownTab, errors.Cause(err))
}

func TestDashboard_Submit_failure(t *testing.T) {
	tests := []struct {
		name     string
		reset    form.ResetPolicy
		wantKept bool
	}{
		{name: "reset always", reset: form.ResetAlways},
		{name: "reset on success", reset: form.ResetOnSuccess, wantKept: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eps := newEndpoints()
			eps[entity.Organizations].createErr = errors.New("slug taken")
			endpoints := make(map[entity.Type]store.Endpoint)
			for typ, ep := range eps {
				endpoints[typ] = ep
			}
			r, _ := role.For(role.Admin)
			d, err := New(DefaultRegistry(""), store.New(endpoints), r, Options{Form: form.Options{Reset: tt.reset}})
			require.NoError(t, err)
			require.NoError(t, d.Select(entity.Organizations))

			err = d.Submit(context.Background(), url.Values{"name": {"Fox"}, "slug": {"fox"}})
			assert.EqualError(t, err, "Failed to create organizations: slug taken")

			v := d.View()
			assert.Equal(t, "Failed to create organizations: slug taken", v.Error)
			if tt.wantKept {
				assert.Equal(t, "Fox", v.Form.Controls[0].Value)
			} else {
				assert.Equal(t, "", v.Form.Controls[0].Value)
			}

			d.DismissError()
			assert.Empty(t, d.View().Error)
		})
	}
}

func TestDashboard_readOnly(t *testing.T) {
	eps := newEndpoints()
	eps[entity.Courses].items = []map[string]interface{}{{"id": 1, "name": "Math"}}
	d := newTestDashboard(t, role.Student, eps)
	ctx := context.Background()
	require.NoError(t, d.Mount(ctx))

	v := d.View()
	assert.False(t, v.CanMutate)
	assert.Nil(t, v.Form)
	assert.False(t, v.Table.Deletable)

	assert.Equal(t, ErrReadOnly, d.Submit(ctx, url.Values{"name": {"x"}, "description": {"y"}}))
	assert.Equal(t, ErrReadOnly, d.Delete(ctx, "1"))
	assert.Len(t, eps[entity.Courses].items, 1)
}

func TestDashboard_Delete(t *testing.T) {
	eps := newEndpoints()
	eps[entity.Teams].items = []map[string]interface{}{{"id": 7, "name": "Alpha", "cohort": 3}}
	eps[entity.Teams].pk = 7
	d := newTestDashboard(t, role.Mentor, eps)
	ctx := context.Background()
	require.NoError(t, d.Mount(ctx))
	require.NoError(t, d.Select(entity.Teams))

	v := d.View()
	require.Len(t, v.Table.Rows, 1)
	assert.Equal(t, "Cohort 3", v.Table.Rows[0].Cells[1].Text)

	assert.Equal(t, table.ErrNoRowID, d.Delete(ctx, ""))
	require.NoError(t, d.Delete(ctx, "7"))
	assert.True(t, d.View().Table.Empty)

	err := d.Delete(ctx, "7")
	assert.EqualError(t, err, "Failed to delete teams: not found")
}

func TestSessions(t *testing.T) {
	var built int
	sessions := NewSessions(time.Minute, func(token string, r role.Interface) (*Dashboard, error) {
		built++
		st := store.New(map[entity.Type]store.Endpoint{entity.Courses: &memEndpoint{}})
		return New(DefaultRegistry(""), st, r, Options{})
	})
	admin, _ := role.For(role.Admin)

	d1, err := sessions.Get("token-1", admin)
	require.NoError(t, err)
	d2, err := sessions.Get("token-1", admin)
	require.NoError(t, err)
	assert.Same(t, d1, d2)
	assert.Equal(t, 1, built)

	_, err = sessions.Get("token-2", admin)
	require.NoError(t, err)
	assert.Equal(t, 2, sessions.Len())

	sessions.Drop("token-1")
	d3, err := sessions.Get("token-1", admin)
	require.NoError(t, err)
	assert.NotSame(t, d1, d3)
	assert.Equal(t, 3, built)

	student, _ := role.For(role.Student)
	failing := NewSessions(time.Minute, func(string, role.Interface) (*Dashboard, error) { return nil, ErrNoTabs })
	_, err = failing.Get("token-3", student)
	assert.Equal(t, ErrNoTabs, err)
	assert.Equal(t, 0, failing.Len())
}
