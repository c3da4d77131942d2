package compiler

import "strings"

// ResolvedInvocation is one recognized use of a registered name.
//
// Fields hold the raw argument text with every nested invocation replaced by
// its identifier; the nested invocations themselves are listed in Overloads
// in discovery order.
type ResolvedInvocation struct {
	Name      string
	ID        string
	Fields    []string // Empty when no bracket list followed the name
	Inside    string   // Fields joined by the separator; meaningful only with fields
	Overloads []ResolvedInvocation
	Start     int // Byte offset of the marker in the source
	End       int // Byte offset just past the invocation
}

// HasInside reports whether the invocation carried a bracket list.
func (r ResolvedInvocation) HasInside() bool {
	return len(r.Fields) > 0
}

// FieldOverloads returns the overloads whose identifier appears in field i.
func (r ResolvedInvocation) FieldOverloads(i int) []ResolvedInvocation {
	var out []ResolvedInvocation
	for _, o := range r.Overloads {
		if strings.Contains(r.Fields[i], o.ID) {
			out = append(out, o)
		}
	}
	return out
}

// Walk visits r and its overloads depth-first, parents before children.
func (r ResolvedInvocation) Walk(visit func(ResolvedInvocation)) {
	visit(r)
	for _, o := range r.Overloads {
		o.Walk(visit)
	}
}

// CompiledOutput is the result of a successful compile.
type CompiledOutput struct {
	Text        string               // Source with every invocation replaced by its identifier
	Invocations []ResolvedInvocation // Top-level invocations in source order
}

// Views projects the forest into its per-field presentation form.
func (o *CompiledOutput) Views() []InvocationView {
	views := make([]InvocationView, len(o.Invocations))
	for i, inv := range o.Invocations {
		views[i] = inv.View()
	}
	return views
}

// Count returns the number of invocations at every depth.
func (o *CompiledOutput) Count() int {
	n := 0
	for _, inv := range o.Invocations {
		inv.Walk(func(ResolvedInvocation) { n++ })
	}
	return n
}

// InvocationView is the presentation form of a ResolvedInvocation: each
// field carries only the overloads whose identifier occurs in its text.
type InvocationView struct {
	Name   string      `json:"name" yaml:"name"`
	ID     string      `json:"id" yaml:"id"`
	Inside *string     `json:"inside" yaml:"inside"`
	Fields []FieldView `json:"fields" yaml:"fields"`
}

// FieldView is one field of an InvocationView.
type FieldView struct {
	Value     string           `json:"value" yaml:"value"`
	Overloads []InvocationView `json:"overloads" yaml:"overloads"`
}

// View builds the presentation form. It does not modify r.
func (r ResolvedInvocation) View() InvocationView {
	view := InvocationView{
		Name:   r.Name,
		ID:     r.ID,
		Fields: make([]FieldView, len(r.Fields)),
	}
	if r.HasInside() {
		inside := r.Inside
		view.Inside = &inside
	}
	for i, value := range r.Fields {
		overloads := r.FieldOverloads(i)
		field := FieldView{Value: value, Overloads: make([]InvocationView, len(overloads))}
		for j, o := range overloads {
			field.Overloads[j] = o.View()
		}
		view.Fields[i] = field
	}
	return view
}
