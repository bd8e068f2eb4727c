// Package dtaler mirrors tables and series into an external table viewer,
// one stored table per tracked variable.
package dtaler

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/gravitrone/autoplot/internal/display"
	"github.com/gravitrone/autoplot/internal/metrics"
	"github.com/gravitrone/autoplot/internal/series"
	"github.com/gravitrone/autoplot/internal/toast"
	"github.com/gravitrone/autoplot/internal/ui/components"
)

// DefaultSettle is how long to wait after the first table is created.
const DefaultSettle = 300 * time.Millisecond

const (
	gridWidth   = 100
	gridMaxRows = 20
)

// Store is the table viewer backing the view.
type Store interface {
	Create(name string, v series.Value) (string, error)
	Update(id string, v series.Value) error
	Exists(id string) (bool, error)
	Cleanup(id string) error
	IDs() ([]string, error)
}

type record struct {
	value series.Value
	id    string
}

// DTaler keeps one store entry per tracked variable. Variables deleted in
// the viewer stay ignored until the user shows them again.
type DTaler struct {
	store   Store
	toast   *toast.Toast
	metrics *metrics.Metrics
	logger  *slog.Logger

	tracked map[string]record
	ignored map[string]struct{}
	frozen  bool

	ignoreNext []string
	showNext   []string

	// per cycle
	created   []string
	forceShow []string
	updated   []string
	deleted   []string

	settled bool
	settle  time.Duration
	sleep   func(time.Duration)
}

// Option configures a DTaler.
type Option func(*DTaler)

// WithSettle changes the delay after the first create.
func WithSettle(d time.Duration) Option {
	return func(d2 *DTaler) { d2.settle = d }
}

// WithSleeper replaces time.Sleep.
func WithSleeper(fn func(time.Duration)) Option {
	return func(d *DTaler) { d.sleep = fn }
}

// WithMetrics records store activity on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *DTaler) { d.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *DTaler) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a DTaler over store.
func New(store Store, t *toast.Toast, opts ...Option) *DTaler {
	d := &DTaler{
		store:   store,
		toast:   t,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracked: make(map[string]record),
		ignored: make(map[string]struct{}),
		settle:  DefaultSettle,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// --- Inspection ---

// Tracked returns the store id of name.
func (d *DTaler) Tracked(name string) (string, bool) {
	rec, ok := d.tracked[name]
	return rec.id, ok
}

// TrackedNames returns the tracked names, sorted.
func (d *DTaler) TrackedNames() []string {
	return sortedKeys(d.tracked)
}

// Ignored reports whether name is ignored.
func (d *DTaler) Ignored(name string) bool {
	_, ok := d.ignored[name]
	return ok
}

// Frozen reports the freeze state.
func (d *DTaler) Frozen() bool { return d.frozen }

// --- Reconciliation ---

// UpdateVariables syncs the store with the snapshot.
func (d *DTaler) UpdateVariables(s series.Snapshot) {
	d.created, d.forceShow, d.updated, d.deleted = nil, nil, nil, nil

	vars := make([]series.Variable, 0, len(s))
	present := make(map[string]struct{}, len(s))
	for _, v := range s {
		if _, ok := v.Value.(series.Value); ok {
			vars = append(vars, v)
			present[v.Name] = struct{}{}
		}
	}

	// tables deleted inside the viewer are not tracked again until shown
	for _, name := range sortedKeys(d.tracked) {
		rec := d.tracked[name]
		exists, err := d.store.Exists(rec.id)
		if err != nil {
			d.logger.Warn("check table", "name", name, "id", rec.id, "error", err)
			d.metrics.StoreError("exists")
			continue
		}
		if !exists {
			d.logger.Info("table removed in viewer", "name", name, "id", rec.id)
			d.forget(name, false)
			d.ignored[name] = struct{}{}
			d.metrics.Desync()
		}
	}

	for _, name := range append(sortedKeys(d.tracked), sortedKeys(d.ignored)...) {
		if _, ok := present[name]; ok {
			continue
		}
		d.forget(name, true)
		delete(d.ignored, name)
	}

	if d.frozen {
		for _, v := range vars {
			if _, ok := d.tracked[v.Name]; !ok {
				d.ignored[v.Name] = struct{}{}
			}
		}
	}

	// ignores first so a show in the same cycle wins
	for _, name := range d.ignoreNext {
		d.ignored[name] = struct{}{}
	}
	for _, name := range d.showNext {
		delete(d.ignored, name)
	}
	d.forceShow = d.showNext
	d.ignoreNext, d.showNext = nil, nil

	for _, name := range sortedKeys(d.ignored) {
		d.forget(name, true)
	}

	for _, v := range vars {
		if _, ok := d.tracked[v.Name]; ok {
			continue
		}
		if _, ok := d.ignored[v.Name]; ok {
			continue
		}
		d.create(v.Name, v.Value.(series.Value))
	}

	for _, v := range vars {
		rec, ok := d.tracked[v.Name]
		if !ok {
			continue
		}
		if val := v.Value.(series.Value); rec.value != val {
			d.update(v.Name, rec, val)
		}
	}

	d.metrics.Cycle("dtale")
	d.metrics.Entities("dtale", metrics.OpCreated, len(d.created))
	d.metrics.Entities("dtale", metrics.OpUpdated, len(d.updated))
	d.metrics.Entities("dtale", metrics.OpRemoved, len(d.deleted))
}

func (d *DTaler) create(name string, v series.Value) {
	id, err := d.store.Create(name, v)
	if err != nil {
		d.storeFailed("create", name, err)
		return
	}
	if !d.settled {
		d.settled = true
		d.sleep(d.settle)
	}
	d.tracked[name] = record{value: v, id: id}
	d.created = append(d.created, name)
	d.logger.Debug("table created", "name", name, "id", id)
}

func (d *DTaler) update(name string, rec record, v series.Value) {
	if err := d.store.Update(rec.id, v); err != nil {
		d.storeFailed("update", name, err)
		return
	}
	d.tracked[name] = record{value: v, id: rec.id}
	d.updated = append(d.updated, rec.id)
	d.logger.Debug("table updated", "name", name, "id", rec.id)
}

// forget stops tracking name, removing its table from the store when cleanup
// is set.
func (d *DTaler) forget(name string, cleanup bool) {
	rec, ok := d.tracked[name]
	if !ok {
		return
	}
	delete(d.tracked, name)
	if cleanup {
		if err := d.store.Cleanup(rec.id); err != nil {
			d.logger.Warn("cleanup table", "name", name, "id", rec.id, "error", err)
			d.metrics.StoreError("cleanup")
		}
	}
	d.deleted = append(d.deleted, rec.id)
}

func (d *DTaler) storeFailed(op, name string, err error) {
	d.logger.Error("table store", "op", op, "name", name, "error", err)
	d.metrics.StoreError(op)
	d.toast.Show(fmt.Sprintf("Could not %s table '%s': %v", op, name, err), toast.Error)
}

// --- Drawing ---

// Draw shows, in order of preference: the last force-shown table, the last
// new table, the current table if it was updated, or a replacement if the
// current table was deleted.
func (d *DTaler) Draw(force bool, out *display.Output) {
	current := out.DataID()
	refresh := false

	if name, ok := d.lastTracked(d.forceShow); ok {
		current, refresh = d.tracked[name].id, true
	} else if name, ok := d.lastTracked(d.created); ok {
		current, refresh = d.tracked[name].id, true
	} else if len(d.updated) > 0 {
		refresh = slices.Contains(d.updated, current)
	} else if len(d.deleted) > 0 && slices.Contains(d.deleted, current) {
		current, refresh = d.nextID(), true
	}

	if !refresh && !force {
		return
	}
	d.render(current, out)
}

func (d *DTaler) lastTracked(names []string) (string, bool) {
	for i := len(names) - 1; i >= 0; i-- {
		if _, ok := d.tracked[names[i]]; ok {
			return names[i], true
		}
	}
	return "", false
}

func (d *DTaler) nextID() string {
	ids, err := d.store.IDs()
	if err != nil {
		d.logger.Warn("list tables", "error", err)
		d.metrics.StoreError("list")
		return ""
	}
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

func (d *DTaler) render(id string, out *display.Output) {
	out.Clear()
	out.SetDataID(id)
	if id == "" {
		out.Show(display.Item{Kind: display.KindPlaceholder, Title: "dtale", Text: "no tables tracked"})
		return
	}
	for name, rec := range d.tracked {
		if rec.id == id {
			out.Show(display.Item{
				Kind:   display.KindTable,
				Title:  name,
				DataID: id,
				Text:   components.ValueGrid(rec.value, gridWidth, gridMaxRows),
			})
			return
		}
	}
	out.Show(display.Item{Kind: display.KindTable, Title: id, DataID: id, Text: fmt.Sprintf("table %s", id)})
}

// --- Commands ---

// IgnoreVariable stops tracking name from the next cycle on.
func (d *DTaler) IgnoreVariable(name string) {
	d.ignoreNext = append(d.ignoreNext, series.RemoveQuotes(name))
}

// ShowVariable tracks name from the next cycle on and brings it to the front.
func (d *DTaler) ShowVariable(name string) {
	d.showNext = append(d.showNext, series.RemoveQuotes(name))
}

// Freeze stops new variables from being tracked.
func (d *DTaler) Freeze() {
	if !d.frozen {
		d.toast.Show("Dtale is 'frozen'. New DFs will not be tracked, but tracked ones will still update.", toast.Info)
	}
	d.frozen = true
}

// Defrost resumes tracking new variables.
func (d *DTaler) Defrost() {
	if d.frozen {
		d.toast.Show("Dtale is 'defrosted'. DFs defined while it was frozen will not be automatically picked up. Use --show to get them added.", toast.Info)
	}
	d.frozen = false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
