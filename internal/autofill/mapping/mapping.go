// Package mapping combines field resolution with a canonical record to
// produce the (target field, value, source attribute) triples the populator
// writes.
package mapping

import (
	"formfill/internal/autofill/form"
	"formfill/internal/autofill/record"
)

// Mapping is one resolved population target. Produced fresh per auto-fill
// invocation and never persisted.
type Mapping struct {
	// TargetFieldName is the resolved field's declared name (or the logical
	// name for placeholders).
	TargetFieldName string
	// Target is the addressable field handle.
	Target form.Field
	// Value is the non-empty normalized value to write.
	Value string
	// SourceAttribute is the canonical attribute the value came from.
	SourceAttribute string
}

// Overrides maps a canonical attribute name to an explicit form field name.
// When present, the override target is resolved instead of the attribute's
// logical name, letting host configuration pin attributes to non-standard
// fields.
type Overrides map[string]string

// Map resolves a target for every non-empty attribute. Empty attributes are
// skipped silently: registries routinely omit optional fields and that is
// the expected common case, not an error. Resolution is total (placeholder
// fallback), so the result length equals the number of non-empty
// attributes.
func Map(f form.Form, attrs []record.Attribute, overrides Overrides) []Mapping {
	var mappings []Mapping
	for _, attr := range attrs {
		if attr.Value == "" {
			continue
		}

		logical := attr.Name
		if target, ok := overrides[attr.Name]; ok && target != "" {
			logical = target
		}

		field := form.Resolve(f, logical)
		name := field.Name()
		if name == "" {
			name = field.ID()
		}
		if name == "" {
			name = logical
		}

		mappings = append(mappings, Mapping{
			TargetFieldName: name,
			Target:          field,
			Value:           attr.Value,
			SourceAttribute: attr.Name,
		})
	}
	return mappings
}

// MapExisting is Map restricted to fields that really exist on the form; no
// placeholders are fabricated. Hosts that want true coverage numbers use
// this variant.
func MapExisting(f form.Form, attrs []record.Attribute, overrides Overrides) []Mapping {
	var mappings []Mapping
	for _, m := range Map(f, attrs, overrides) {
		if form.IsPlaceholder(m.Target) {
			continue
		}
		mappings = append(mappings, m)
	}
	return mappings
}
