package form

// ControlType names the concrete input control a field renders as
type ControlType string

const (
	ControlTextInput   ControlType = "text_input"
	ControlNumberInput ControlType = "number_input"
	ControlDropdown    ControlType = "dropdown"
	ControlCheckboxes  ControlType = "checkbox_group"
)

// FieldControl is the render descriptor for one category attribute: the
// control to draw, its current binding and its validation message. The
// dashboard consumes these as-is, so the shape stays stable.
type FieldControl struct {
	Name        string      `json:"name"`
	Label       string      `json:"label"`
	Control     ControlType `json:"control"`
	Options     []string    `json:"options,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
	Tooltip     string      `json:"tooltip,omitempty"`
	Value       interface{} `json:"value"`
	Error       string      `json:"error,omitempty"`
}

// controlFor maps a field kind to its control. The switch covers every
// FieldKind constant; callers filter unknown kinds before rendering.
func controlFor(kind FieldKind) ControlType {
	switch kind {
	case KindNumber:
		return ControlNumberInput
	case KindSelect:
		return ControlDropdown
	case KindMultiSelect:
		return ControlCheckboxes
	default:
		return ControlTextInput
	}
}

// RenderField builds the control descriptor for one attribute, binding
// the current value and validation error for its name.
func RenderField(attr AttributeDefinition, values map[string]interface{}, errs FieldErrors) FieldControl {
	value := values[attr.Name]
	if value == nil {
		if attr.Kind == KindMultiSelect {
			value = []string{}
		} else {
			value = ""
		}
	}
	return FieldControl{
		Name:        attr.Name,
		Label:       attr.Label,
		Control:     controlFor(attr.Kind),
		Options:     attr.Options,
		Placeholder: attr.Placeholder,
		Tooltip:     attr.Tooltip,
		Value:       value,
		Error:       errs[attr.Name],
	}
}

// RenderSchema renders every attribute of a schema in schema order,
// skipping definitions whose kind fails to parse.
func RenderSchema(schema *CategorySchema, values map[string]interface{}, errs FieldErrors) []FieldControl {
	if schema == nil {
		return []FieldControl{}
	}
	controls := make([]FieldControl, 0, len(schema.Attributes))
	for _, attr := range schema.Attributes {
		if _, err := ParseFieldKind(string(attr.Kind)); err != nil {
			continue
		}
		controls = append(controls, RenderField(attr, values, errs))
	}
	return controls
}

// ToggleOption adds the option if absent or removes it if present,
// preserving the relative order of the remaining selections. Toggling
// twice returns the exact prior selection.
func ToggleOption(selection []string, option string) []string {
	for i, current := range selection {
		if current == option {
			out := make([]string, 0, len(selection)-1)
			out = append(out, selection[:i]...)
			out = append(out, selection[i+1:]...)
			return out
		}
	}
	out := make([]string, 0, len(selection)+1)
	out = append(out, selection...)
	return append(out, option)
}
