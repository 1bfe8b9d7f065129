// Package honeycomb defines the configuration form of the honeycomb widget,
// which renders one cell per item matching the item patterns.
package honeycomb

import "github.com/platformbuilds/mirador-console/internal/widgets"

// WidgetType is the registry key of the widget.
const WidgetType = "honeycomb"

const (
	ShowPrimary   = 1
	ShowSecondary = 2

	LabelTypeText  = 0
	LabelTypeValue = 1

	SizeAuto   = 0
	SizeCustom = 1

	UnitsPositionBefore = 0
	UnitsPositionAfter  = 1

	TagEvalTypeAndOr = 0
	TagEvalTypeOr    = 2

	sizePercentMin = 1
	sizePercentMax = 100

	primarySizeDefault   = 20
	secondarySizeDefault = 30

	decimalsMin     = 0
	decimalsMax     = 6
	decimalsDefault = 2
)

var (
	tagEvalOptions = []widgets.Option{
		{Value: TagEvalTypeAndOr, Label: "And/Or"},
		{Value: TagEvalTypeOr, Label: "Or"},
	}
	labelTypeOptions = []widgets.Option{
		{Value: LabelTypeText, Label: "Text"},
		{Value: LabelTypeValue, Label: "Value"},
	}
	sizeTypeOptions = []widgets.Option{
		{Value: SizeAuto, Label: "Auto"},
		{Value: SizeCustom, Label: "Custom"},
	}
	unitsPositionOptions = []widgets.Option{
		{Value: UnitsPositionBefore, Label: "Before value"},
		{Value: UnitsPositionAfter, Label: "After value"},
	}
)

// DashboardHosts is the host selection that follows the template
// dashboard's host.
var DashboardHosts = widgets.HostSelection{
	Reference: widgets.TypedReference(widgets.ReferenceDashboard, widgets.DataTypeHostIDs),
}

// Form is the honeycomb widget form.
type Form struct {
	*widgets.Form
}

// NewForm builds the form and fills it with values.
func NewForm(values map[string]any, opts widgets.FormOptions) *Form {
	f := &Form{Form: widgets.NewForm(opts)}
	f.addFields()
	f.SetValues(values)
	return f
}

// Register adds the widget to r.
func Register(r *widgets.Registry) {
	r.Register(WidgetType, func(values map[string]any, opts widgets.FormOptions) widgets.WidgetForm {
		return NewForm(values, opts)
	})
}

func (f *Form) addFields() {
	template := f.IsTemplateDashboard()

	hosts := widgets.NewMultiSelectHost("hostids", "Hosts")
	if template {
		hosts.SetDefault(DashboardHosts)
	}

	items := widgets.NewItemPatternSelect("items", "Item pattern")
	items.SetFlags(widgets.FlagNotEmpty | widgets.FlagLabelAsterisk)

	maintenanceLabel := "Show hosts in maintenance"
	if template {
		maintenanceLabel = "Show data in maintenance"
	}

	show := widgets.NewCheckBoxList("show", "Show", []widgets.Option{
		{Value: ShowPrimary, Label: "Primary label"},
		{Value: ShowSecondary, Label: "Secondary label"},
	}).SetDefault([]int{ShowPrimary, ShowSecondary})
	show.SetFlags(widgets.FlagLabelAsterisk)

	f.Add(unlessTemplate(template, widgets.NewMultiSelectGroup("groupids", "Host groups"))).
		Add(hosts).
		Add(unlessTemplate(template,
			widgets.NewRadioButtonList("evaltype_host", "Host tags", tagEvalOptions).SetDefault(TagEvalTypeAndOr))).
		Add(unlessTemplate(template, widgets.NewTags("host_tags", ""))).
		Add(items).
		Add(widgets.NewRadioButtonList("evaltype_item", "Item tags", tagEvalOptions).SetDefault(TagEvalTypeAndOr)).
		Add(widgets.NewTags("item_tags", "")).
		Add(widgets.NewCheckBox("maintenance", maintenanceLabel).SetDefault(0)).
		Add(show)

	f.addLabelFields("primary", LabelTypeText, "{HOST.NAME}", primarySizeDefault, 0)
	f.addLabelFields("secondary", LabelTypeValue, "{{ITEM.LASTVALUE}.fmtnum(2)}", secondarySizeDefault, 1)

	f.Add(widgets.NewColor("bg_color", "Background color")).
		Add(widgets.NewCheckBox("interpolation", "Color interpolation").SetDefault(1)).
		Add(widgets.NewThresholds("thresholds", "Thresholds"))
}

// addLabelFields adds the settings of the primary or secondary label.
func (f *Form) addLabelFields(prefix string, labelType int, text string, size, bold int) {
	decimals := widgets.NewIntegerBox(prefix+"_label_decimal_places", "Decimal places", decimalsMin, decimalsMax).
		SetDefault(decimalsDefault)
	decimals.SetFlags(widgets.FlagNotEmpty)

	label := widgets.NewTextArea(prefix+"_label", "Text").SetDefault(text)
	label.SetFlags(widgets.FlagNotEmpty | widgets.FlagLabelAsterisk)

	f.Add(widgets.NewRadioButtonList(prefix+"_label_type", "Type", labelTypeOptions).SetDefault(labelType)).
		Add(decimals).
		Add(label).
		Add(widgets.NewRadioButtonList(prefix+"_label_size_type", "", sizeTypeOptions).SetDefault(SizeAuto)).
		Add(widgets.NewIntegerBox(prefix+"_label_size", "Size", sizePercentMin, sizePercentMax).SetDefault(size)).
		Add(widgets.NewCheckBox(prefix+"_label_bold", "Bold").SetDefault(bold)).
		Add(widgets.NewColor(prefix+"_label_color", "Color")).
		Add(widgets.NewCheckBox(prefix+"_label_units_show", "").SetDefault(1)).
		Add(widgets.NewTextBox(prefix+"_label_units", "Units")).
		Add(widgets.NewSelect(prefix+"_label_units_pos", "Position", unitsPositionOptions).SetDefault(UnitsPositionAfter))
}

func unlessTemplate(template bool, field widgets.Field) widgets.Field {
	if template {
		return nil
	}
	return field
}

// Validate validates the form. On template dashboards, strict validation
// first binds the hosts to the dashboard host.
func (f *Form) Validate(strict bool) []*widgets.FieldError {
	if strict && f.IsTemplateDashboard() {
		_ = f.Field("hostids").SetValue(DashboardHosts)
	}
	return f.Form.Validate(strict)
}
