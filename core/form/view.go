package form

import "github.com/Mogeshaue/Happy-Fox-sub000/core/schema"

type (
	OptionView struct {
		Value    string
		Label    string
		Selected bool
	}

	Control struct {
		Name        string
		Placeholder string
		Value       string
		Required    bool
		InputType   string // single-line inputs only
		Multiline   bool
		Select      bool
		Options     []OptionView // the first one is the empty placeholder option
		Error       string
	}

	View struct {
		Controls    []Control
		SubmitLabel string
		Disabled    bool
	}
)

// View describes the controls to render, one per field.
func (f *Form) View(loading bool) View {
	v := View{
		Controls:    make([]Control, 0, len(f.fields)),
		SubmitLabel: f.opts.SubmitLabel,
		Disabled:    !f.CanSubmit(loading),
	}
	for _, fld := range f.fields {
		ctl := Control{
			Name:        fld.Name,
			Placeholder: fld.Placeholder,
			Value:       f.values[fld.Name],
			Required:    fld.Required,
			Error:       f.errs[fld.Name],
		}
		switch fld.Kind {
		case schema.KindSelect:
			ctl.Select = true
			ctl.Options = make([]OptionView, 0, len(fld.Options)+1)
			ctl.Options = append(ctl.Options, OptionView{Label: fld.Placeholder, Selected: ctl.Value == ""})
			for _, opt := range fld.Options {
				ctl.Options = append(ctl.Options, OptionView{
					Value:    opt.Value,
					Label:    opt.Label,
					Selected: ctl.Value != "" && opt.Value == ctl.Value,
				})
			}
		case schema.KindTextarea:
			ctl.Multiline = true
		default:
			ctl.InputType = fld.Kind.InputType()
		}
		v.Controls = append(v.Controls, ctl)
	}
	return v
}
