// Package render builds the search form, per-filter controls, the
// active-filter chip list and its remove-filter URLs. Rendering is a pure
// read of resolved active filters; it never mutates registry or request
// state.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/filter"
	"github.com/jmontes/listry/pkg/query"
)

//go:embed templates/*.html
var templatesFS embed.FS

// control template names by filter kind; keyword falls through to text.
var kindTemplates = map[filter.Type]string{
	filter.TypeKeyword:   "text.html",
	filter.TypeSelect:    "select.html",
	filter.TypeCheckbox:  "checkbox.html",
	filter.TypeRange:     "number_range.html",
	filter.TypeDateRange: "date_range.html",
}

// Renderer renders search UI fragments for one registry.
type Renderer struct {
	registry *filter.Registry
	notifier *core.Notifier
	basePath string
	tmpl     *template.Template
}

// NewRenderer parses the embedded templates. basePath is the collection view
// the form posts to and remove-filter links point at (e.g. "/search");
// notifier may be nil.
func NewRenderer(registry *filter.Registry, notifier *core.Notifier, basePath string) (*Renderer, error) {
	if basePath == "" {
		basePath = "/search"
	}
	tmpl, err := template.New("render").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing render templates: %w", err)
	}
	return &Renderer{
		registry: registry,
		notifier: notifier,
		basePath: basePath,
		tmpl:     tmpl,
	}, nil
}

type optionData struct {
	Value    string
	Label    string
	Selected bool
}

type controlData struct {
	Param       string
	Label       string
	Value       string
	Placeholder string
	Options     []optionData
	MinParam    string
	MaxParam    string
	MinValue    string
	MaxValue    string
	HasMin      bool
	HasMax      bool
	Min         float64
	Max         float64
	Step        float64
}

// Control renders the input control for one filter with its current value.
func (r *Renderer) Control(f filter.Filter, v filter.Value) (template.HTML, error) {
	name, ok := kindTemplates[f.Type()]
	if !ok {
		name = "text.html"
	}

	def := f.Definition()
	data := controlData{
		Param:       f.URLParam(),
		Label:       f.Label(),
		Value:       v.Text,
		Placeholder: def.Placeholder,
		Step:        def.Step,
	}
	if def.Min != nil {
		data.HasMin = true
		data.Min = *def.Min
	}
	if def.Max != nil {
		data.HasMax = true
		data.Max = *def.Max
	}

	params := f.URLParams()
	if len(params) == 2 {
		data.MinParam = params[0]
		data.MaxParam = params[1]
		data.MinValue = v.Min
		data.MaxValue = v.Max
	}

	selected := make(map[string]bool, len(v.List))
	for _, item := range v.List {
		selected[item] = true
	}
	for _, opt := range def.Options {
		label := opt.Label
		if label == "" {
			label = Humanize(opt.Value)
		}
		data.Options = append(data.Options, optionData{
			Value:    opt.Value,
			Label:    label,
			Selected: opt.Value == v.Text || selected[opt.Value],
		})
	}

	return r.execute(name, data)
}

type sortFieldData struct {
	Value    string
	Label    string
	Selected bool
}

type sortData struct {
	Fields []sortFieldData
	Asc    bool
}

// SortSelect renders the orderby/order controls with the request's resolved
// sort preselected.
func (r *Renderer) SortSelect(req core.SearchRequest) (template.HTML, error) {
	resolved := query.ResolveSort(req)
	fields := []query.SortField{query.SortDate, query.SortTitle, query.SortViews, query.SortRandom}

	data := sortData{Asc: resolved.Dir == query.Asc}
	for _, field := range fields {
		data.Fields = append(data.Fields, sortFieldData{
			Value:    string(field),
			Label:    Humanize(string(field)),
			Selected: field == resolved.Field,
		})
	}
	return r.execute("sort.html", data)
}

type formData struct {
	Action      string
	Controls    []template.HTML
	SortControl template.HTML
}

// Form renders the whole search form: every enabled filter's control in
// registry order, the sort select, and the submit button.
func (r *Renderer) Form(req core.SearchRequest) (template.HTML, error) {
	if r.notifier != nil {
		r.notifier.Notify(core.EventBeforeRender, req)
	}

	data := formData{Action: r.basePath}
	for _, f := range r.registry.List(filter.ListOptions{EnabledOnly: true}) {
		value := f.Sanitize(f.ReadValue(req))
		control, err := r.Control(f, value)
		if err != nil {
			return "", err
		}
		data.Controls = append(data.Controls, control)
	}

	sortControl, err := r.SortSelect(req)
	if err != nil {
		return "", err
	}
	data.SortControl = sortControl

	out, err := r.execute("form.html", data)
	if err != nil {
		return "", err
	}
	if r.notifier != nil {
		r.notifier.Notify(core.EventAfterRender, req)
	}
	return out, nil
}

type chipData struct {
	Label     string
	Display   string
	RemoveURL string
}

type chipsData struct {
	Chips    []chipData
	ClearURL string
}

// Chips renders the active-filter list: one chip per active filter showing
// "label: displayValue" with a link reproducing the current request minus
// that filter's parameters, plus a clear-all link back to the bare view.
func (r *Renderer) Chips(req core.SearchRequest, active filter.ActiveSet) (template.HTML, error) {
	data := chipsData{ClearURL: r.ClearURL()}
	for _, a := range active {
		data.Chips = append(data.Chips, chipData{
			Label:     a.Filter.Label(),
			Display:   a.Filter.DisplayValue(a.Value),
			RemoveURL: r.RemoveURL(req, a.Filter),
		})
	}
	return r.execute("chips.html", data)
}

// RemoveURL builds the link that strips exactly the given filter's
// parameters from the request and preserves everything else.
func (r *Renderer) RemoveURL(req core.SearchRequest, f filter.Filter) string {
	stripped := req.Without(f.URLParams()...)
	encoded := stripped.Encode()
	if encoded == "" {
		return r.basePath
	}
	return r.basePath + "?" + encoded
}

// ClearURL links back to the bare collection view.
func (r *Renderer) ClearURL() string {
	return r.basePath
}

// NoResults renders the empty-state message.
func (r *Renderer) NoResults() (template.HTML, error) {
	return r.execute("noresults.html", nil)
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf strings.Builder
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
