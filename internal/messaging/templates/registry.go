// Package templates holds the registry of provider-approved message
// templates and renders parameter bindings into the Graph API component
// schema.
package templates

import (
	"fmt"

	"github.com/ohcnetwork/care-whatsapp/internal/messaging"
	"github.com/ohcnetwork/care-whatsapp/internal/whatsapp"
)

// SlotComponent places a parameter slot in a template component.
type SlotComponent string

const (
	ComponentBody   SlotComponent = "body"
	ComponentButton SlotComponent = "button"
)

// Slot is one positional parameter slot of a template definition.
type Slot struct {
	Name      string
	Type      messaging.ParamType
	Component SlotComponent
	// ButtonIndex positions a button slot; ignored for body slots.
	ButtonIndex int
}

// Definition describes one provider-side template: its unique name, the
// translation to request, and the ordered parameter slots the approved
// template expects.
type Definition struct {
	Name     string
	Language string
	Slots    []Slot
}

// Registry maps template names to definitions. Populated once at startup,
// read-only afterwards.
type Registry struct {
	language string
	defs     map[string]Definition
}

// NewRegistry builds a registry with the given default language code.
// Duplicate names are a programming error and fail construction.
func NewRegistry(language string, defs ...Definition) (*Registry, error) {
	if language == "" {
		language = "en"
	}
	r := &Registry{language: language, defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("templates: definition with empty name")
		}
		if _, dup := r.defs[d.Name]; dup {
			return nil, fmt.Errorf("templates: duplicate template %q", d.Name)
		}
		r.defs[d.Name] = d
	}
	return r, nil
}

// Known reports whether a template name is registered.
func (r *Registry) Known(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// Render validates the bindings against the template's slot schema and
// produces the provider wire payload. Same name and params always yield
// the same payload; arity or type violations fail before any network call.
func (r *Registry) Render(name string, params []messaging.ParamBinding) (whatsapp.TemplatePayload, error) {
	def, ok := r.defs[name]
	if !ok {
		return whatsapp.TemplatePayload{}, fmt.Errorf("templates: %q: %w", name, messaging.ErrUnknownTemplate)
	}
	if len(params) != len(def.Slots) {
		return whatsapp.TemplatePayload{}, fmt.Errorf(
			"templates: %q expects %d parameters, got %d: %w",
			name, len(def.Slots), len(params), messaging.ErrParameterMismatch)
	}

	lang := def.Language
	if lang == "" {
		lang = r.language
	}
	payload := whatsapp.TemplatePayload{
		Name:     name,
		Language: whatsapp.TemplateLanguage{Code: lang},
	}

	var body []whatsapp.TemplateParameter
	for i, slot := range def.Slots {
		p := params[i]
		if p.Type != slot.Type {
			return whatsapp.TemplatePayload{}, fmt.Errorf(
				"templates: %q slot %q wants type %s, got %s: %w",
				name, slot.Name, slot.Type, p.Type, messaging.ErrParameterMismatch)
		}
		param := whatsapp.TemplateParameter{Type: string(p.Type), Text: p.Value}
		switch slot.Component {
		case ComponentButton:
			idx := slot.ButtonIndex
			payload.Components = append(payload.Components, whatsapp.TemplateComponent{
				Type:       "button",
				SubType:    "url",
				Index:      &idx,
				Parameters: []whatsapp.TemplateParameter{param},
			})
		default:
			body = append(body, param)
		}
	}
	if len(body) > 0 {
		// Body params share one component; buttons get one each.
		payload.Components = append([]whatsapp.TemplateComponent{{
			Type:       "body",
			Parameters: body,
		}}, payload.Components...)
	}
	return payload, nil
}
