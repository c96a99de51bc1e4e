// Package dashboard binds the generic form and table renderers to the entity store, one tab per entity type.
package dashboard

import (
	"context"
	"net/url"
	"sync"

	"github.com/pkg/errors"

	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/form"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/role"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/schema"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/store"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/table"
)

var (
	ErrUnknownTab = errors.New("unknown tab")
	ErrReadOnly   = errors.New("permission denied")
	ErrNoTabs     = errors.New("no tab available for this role")
)

// Store is what the dashboard needs from the entity store; *store.Store implements it.
type Store interface {
	Lookup
	Types() []entity.Type
	FetchAll(ctx context.Context) error
	Create(ctx context.Context, t entity.Type, payload map[string]string) error
	Delete(ctx context.Context, t entity.Type, id string) error
	Status(t entity.Type, op store.Op) store.Status
	Loading() bool
	LastError() string
	ClearError()
}

var _ Store = (*store.Store)(nil)

type Options struct {
	Form form.Options
}

type (
	TabView struct {
		Type   entity.Type
		Label  string
		Active bool
	}

	View struct {
		Title     string
		Role      string
		Tabs      []TabView
		Active    entity.Type
		Label     string
		CanMutate bool
		Form      *form.View // nil for read-only tabs
		Table     table.View
		Loading   bool
		Error     string
	}
)

// Dashboard is the state of one signed-in user's dashboard: the active tab and its form.
type Dashboard struct {
	registry *Registry
	store    Store
	role     role.Interface
	opts     Options
	tabs     []Tab

	mountOnce sync.Once
	mountErr  error

	mu       sync.Mutex
	active   entity.Type
	form     *form.Form
	creating map[entity.Type]bool // submissions waiting for the store
}

// New returns a dashboard showing the registry tabs the role can view and the store supports.
// The first of them is active.
func New(registry *Registry, st Store, r role.Interface, opts Options) (*Dashboard, error) {
	supported := make(map[entity.Type]bool)
	for _, t := range st.Types() {
		supported[t] = true
	}

	d := &Dashboard{registry: registry, store: st, role: r, opts: opts, creating: make(map[entity.Type]bool)}
	for _, tab := range registry.Tabs() {
		if supported[tab.Type] && r.CanView(tab.Type) {
			d.tabs = append(d.tabs, tab)
		}
	}
	if len(d.tabs) == 0 {
		return nil, ErrNoTabs
	}
	d.activate(d.tabs[0])
	return d, nil
}

func (d *Dashboard) Role() role.Interface { return d.role }

func (d *Dashboard) Tabs() []Tab {
	return append([]Tab(nil), d.tabs...)
}

func (d *Dashboard) Active() entity.Type {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

func (d *Dashboard) tab(t entity.Type) (Tab, bool) {
	for _, tab := range d.tabs {
		if tab.Type == t {
			return tab, true
		}
	}
	return Tab{}, false
}

func (d *Dashboard) activate(tab Tab) {
	d.active = tab.Type
	d.form = form.New(tab.Fields(d.store), d.opts.Form)
}

// Select makes t the active tab. Selecting the active tab keeps its form values.
func (d *Dashboard) Select(t entity.Type) error {
	tab, ok := d.tab(t)
	if !ok {
		return errors.Wrap(ErrUnknownTab, string(t))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active != t {
		d.activate(tab)
	}
	return nil
}

// Mount loads every collection. Only the first call fetches; later calls return its result.
func (d *Dashboard) Mount(ctx context.Context) error {
	d.mountOnce.Do(func() {
		d.mountErr = d.store.FetchAll(ctx)
	})
	return d.mountErr
}

// busy reports whether a create on t is still pending. d.mu must be held.
func (d *Dashboard) busy(t entity.Type) bool {
	return d.creating[t] || d.store.Status(t, store.OpCreate).Loading
}

func (d *Dashboard) columns(tab Tab) []schema.Column {
	return tab.Columns(d.store)
}

// View derives the active tab's configuration from the current collections.
func (d *Dashboard) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()

	tab, _ := d.tab(d.active)
	return d.view(tab, d.form)
}

// Peek derives the view of tab t without making it active. The active tab keeps its form;
// any other tab is shown with an empty one.
func (d *Dashboard) Peek(t entity.Type) (View, error) {
	tab, ok := d.tab(t)
	if !ok {
		return View{}, errors.Wrap(ErrUnknownTab, string(t))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	f := d.form
	if t != d.active {
		f = form.New(tab.Fields(d.store), d.opts.Form)
	}
	return d.view(tab, f), nil
}

// view must be called with d.mu held.
func (d *Dashboard) view(tab Tab, f *form.Form) View {
	v := View{
		Title:     d.role.Title(),
		Role:      d.role.Kind().String(),
		Tabs:      make([]TabView, 0, len(d.tabs)),
		Active:    tab.Type,
		Label:     tab.Label,
		CanMutate: d.role.CanMutate(tab.Type),
		Loading:   d.store.Loading(),
		Error:     d.store.LastError(),
	}
	for _, t := range d.tabs {
		v.Tabs = append(v.Tabs, TabView{Type: t.Type, Label: t.Label, Active: t.Type == tab.Type})
	}

	var onDelete table.DeleteFunc
	if v.CanMutate {
		f.Refresh(tab.Fields(d.store))
		fv := f.View(d.busy(tab.Type))
		v.Form = &fv
		onDelete = d.deleteFunc(tab.Type)
	}
	v.Table = table.New(
		d.columns(tab),
		d.store.Collection(tab.Type),
		d.store.Status(tab.Type, store.OpDelete).Loading,
		onDelete,
	).View()
	return v
}

// Submit binds data to the active tab's form and creates an entity from it.
// The dashboard stays readable while the store request is in flight.
func (d *Dashboard) Submit(ctx context.Context, data url.Values) error {
	d.mu.Lock()
	t := d.active
	if !d.role.CanMutate(t) {
		d.mu.Unlock()
		return ErrReadOnly
	}
	if d.busy(t) {
		d.mu.Unlock()
		return form.ErrBusy
	}
	tab, _ := d.tab(t)
	f := d.form
	f.Refresh(tab.Fields(d.store))
	f.Bind(data)
	values, err := f.Check(false)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.creating[t] = true
	d.mu.Unlock()

	err = d.store.Create(ctx, t, values)

	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.creating, t)
	// a form replaced by a tab switch meanwhile starts empty anyway
	if d.form == f {
		f.Done(err)
	}
	return err
}

// Delete removes the entity with the given id from the active tab's collection.
func (d *Dashboard) Delete(ctx context.Context, id string) error {
	t := d.Active()
	if !d.role.CanMutate(t) {
		return ErrReadOnly
	}
	tab, _ := d.tab(t)
	tbl := table.New(d.columns(tab), d.store.Collection(t), d.store.Status(t, store.OpDelete).Loading, d.deleteFunc(t))
	return tbl.Delete(ctx, id)
}

func (d *Dashboard) deleteFunc(t entity.Type) table.DeleteFunc {
	return func(ctx context.Context, id string) error {
		return d.store.Delete(ctx, t, id)
	}
}

// DismissError clears the error banner.
func (d *Dashboard) DismissError() {
	d.store.ClearError()
}
