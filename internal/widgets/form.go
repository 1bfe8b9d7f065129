package widgets

import (
	"fmt"
	"sort"
	"sync"

	"github.com/platformbuilds/mirador-console/internal/timeparse"
)

// FormOptions carry the context a widget form is built in.
type FormOptions struct {
	// TemplateDashboard is set for widgets on template dashboards.
	TemplateDashboard bool
	// Parser resolves time expressions of TimePeriod fields.
	Parser timeparse.Parser
}

// Form is an ordered set of fields.
type Form struct {
	opts   FormOptions
	fields []Field
	index  map[string]Field
}

func NewForm(opts FormOptions) *Form {
	return &Form{opts: opts, index: make(map[string]Field)}
}

// IsTemplateDashboard reports whether the form belongs to a template
// dashboard.
func (f *Form) IsTemplateDashboard() bool { return f.opts.TemplateDashboard }

// Add appends field. A nil field is skipped so that conditional fields can
// be added inline.
func (f *Form) Add(field Field) *Form {
	if field == nil {
		return f
	}
	if ps, ok := field.(interface{ SetParser(timeparse.Parser) }); ok {
		ps.SetParser(f.opts.Parser)
	}
	f.fields = append(f.fields, field)
	f.index[field.Name()] = field
	return f
}

// Field returns the named field or nil.
func (f *Form) Field(name string) Field { return f.index[name] }

// Fields returns the fields in order.
func (f *Form) Fields() []Field { return append([]Field(nil), f.fields...) }

// SetValues assigns the values present in values; other fields keep their
// current value. Decoding failures surface in Validate.
func (f *Form) SetValues(values map[string]any) *Form {
	for _, field := range f.fields {
		if raw, ok := values[field.Name()]; ok {
			_ = field.SetValue(raw)
		}
	}
	return f
}

// Validate validates every field and resets the ones that failed to their
// defaults. strict enables FlagNotEmpty checks, as done when a widget is
// saved.
func (f *Form) Validate(strict bool) []*FieldError {
	var errs []*FieldError
	for _, field := range f.fields {
		if ferrs := field.Validate(strict); len(ferrs) > 0 {
			field.Reset()
			errs = append(errs, ferrs...)
		}
	}
	return errs
}

// ToAPI returns the persisted representation of non-default values.
func (f *Form) ToAPI() []WidgetFieldValue {
	var out []WidgetFieldValue
	for _, field := range f.fields {
		out = append(out, field.ToAPI()...)
	}
	if out == nil {
		out = []WidgetFieldValue{}
	}
	return out
}

// WidgetForm is what a widget type's form builder returns.
type WidgetForm interface {
	Field(name string) Field
	Fields() []Field
	Validate(strict bool) []*FieldError
	ToAPI() []WidgetFieldValue
}

// Factory builds the form of one widget type filled with values.
type Factory func(values map[string]any, opts FormOptions) WidgetForm

// Registry maps widget types to their form factories. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces the factory of widgetType.
func (r *Registry) Register(widgetType string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[widgetType] = factory
}

// New builds the form of widgetType.
func (r *Registry) New(widgetType string, values map[string]any, opts FormOptions) (WidgetForm, error) {
	r.mu.RLock()
	factory, ok := r.factories[widgetType]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWidget, widgetType)
	}
	return factory(values, opts), nil
}

// Types lists the registered widget types in lexical order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for t := range r.factories {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
