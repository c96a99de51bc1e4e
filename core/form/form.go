// Package form renders a create-form from a list of field descriptors and tracks its values.
package form

import (
	"context"
	"net/url"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Mogeshaue/Happy-Fox-sub000/core"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/schema"
)

var (
	ErrBusy = errors.New("another operation is in progress")

	requiredText = "this field is required"

	// format checks for typed inputs, only applied to non-empty values
	kindTags = map[schema.FieldKind]string{
		schema.KindEmail: "email",
		schema.KindDate:  "datetime=2006-01-02",
	}
)

// ResetPolicy decides whether the values are cleared when the submit callback fails.
type ResetPolicy int

const (
	// ResetAlways clears the values after every submission, successful or not.
	ResetAlways ResetPolicy = iota
	// ResetOnSuccess keeps the values when the submit callback fails.
	ResetOnSuccess
)

func ParseResetPolicy(s string) ResetPolicy {
	if core.CleanString(s, true /* lower */) == "success" {
		return ResetOnSuccess
	}
	return ResetAlways
}

type SubmitFunc func(ctx context.Context, values map[string]string) error

type Options struct {
	Reset       ResetPolicy
	SubmitLabel string
	Validate    *validator.Validate // optional; enables email/date format checks
	Translator  ut.Translator
}

type Form struct {
	fields []schema.Field
	values map[string]string
	errs   map[string]string
	opts   Options
}

func New(fields []schema.Field, opts Options) *Form {
	if opts.SubmitLabel == "" {
		opts.SubmitLabel = "Create"
	}
	f := &Form{fields: fields, opts: opts}
	f.Reset()
	return f
}

func (f *Form) Fields() []schema.Field { return f.fields }

// Refresh swaps in freshly derived field descriptors, eg. with reloaded select options.
// Values of fields that are still present are kept; new fields start empty.
func (f *Form) Refresh(fields []schema.Field) {
	vals := make(map[string]string, len(fields))
	for _, fld := range fields {
		vals[fld.Name] = f.values[fld.Name]
	}
	f.fields = fields
	f.values = vals
}

func (f *Form) Value(name string) string { return f.values[name] }

// Values returns a copy of the current values, one entry per field.
func (f *Form) Values() map[string]string {
	vals := make(map[string]string, len(f.values))
	for k, v := range f.values {
		vals[k] = v
	}
	return vals
}

// Set updates a field value; unknown names are ignored.
func (f *Form) Set(name, value string) bool {
	if _, ok := f.values[name]; !ok {
		return false
	}
	f.values[name] = value
	return true
}

// Bind copies the submitted values of known fields.
func (f *Form) Bind(data url.Values) {
	for _, fld := range f.fields {
		if vals, ok := data[fld.Name]; ok && len(vals) > 0 {
			f.values[fld.Name] = vals[0]
		}
	}
}

// Reset sets every field back to the empty string.
func (f *Form) Reset() {
	f.values = make(map[string]string, len(f.fields))
	for _, fld := range f.fields {
		f.values[fld.Name] = ""
	}
	f.errs = nil
}

// Valid reports whether every required field has a non-empty value.
func (f *Form) Valid() bool {
	for _, fld := range f.fields {
		if fld.Required && f.values[fld.Name] == "" {
			return false
		}
	}
	return true
}

func (f *Form) CanSubmit(loading bool) bool {
	return f.Valid() && !loading
}

// Errors returns the field errors of the last rejected submission.
func (f *Form) Errors() map[string]string { return f.errs }

// Submit hands the values to fn and resets the form according to the reset policy.
// A form that cannot be submitted is left untouched and fn is not called.
func (f *Form) Submit(ctx context.Context, loading bool, fn SubmitFunc) error {
	values, err := f.Check(loading)
	if err != nil {
		return err
	}
	err = fn(ctx, values)
	f.Done(err)
	return err
}

// Check validates the form and returns a copy of its values for submission.
// Field errors are recorded and returned as a *core.ValidationError.
func (f *Form) Check(loading bool) (map[string]string, error) {
	if loading {
		return nil, ErrBusy
	}
	if fldErrs := f.check(); len(fldErrs) > 0 {
		f.errs = make(map[string]string, len(fldErrs))
		for _, fErr := range fldErrs {
			f.errs[fErr.Field] = fErr.Error
		}
		return nil, core.NewValidationError(nil, fldErrs...)
	}
	return f.Values(), nil
}

// Done applies the reset policy once a checked submission finished with err.
func (f *Form) Done(err error) {
	if err == nil || f.opts.Reset == ResetAlways {
		f.Reset()
	}
}

func (f *Form) check() []core.FieldError {
	var fldErrs []core.FieldError
	for _, fld := range f.fields {
		val := f.values[fld.Name]
		if val == "" {
			if fld.Required {
				fldErrs = append(fldErrs, core.FieldError{Field: fld.Name, Error: requiredText})
			}
			continue
		}
		tag, ok := kindTags[fld.Kind]
		if !ok || f.opts.Validate == nil {
			continue
		}
		if err := f.opts.Validate.Var(val, tag); err != nil {
			fldErrs = append(fldErrs, core.FieldError{Field: fld.Name, Error: f.translate(err)})
		}
	}
	return fldErrs
}

func (f *Form) translate(err error) string {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		if f.opts.Translator != nil {
			return vErrs[0].Translate(f.opts.Translator)
		}
		return "invalid " + strings.SplitN(vErrs[0].Tag(), "=", 2)[0]
	}
	return err.Error()
}
