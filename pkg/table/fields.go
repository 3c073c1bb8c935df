package table

import "fmt"

// Kind describes the UI affordance and value shape of a filterable field.
type Kind int

const (
	// KindText is a free-text filter committed on confirm.
	KindText Kind = iota
	// KindCheckbox is a multi-select among a declared option universe.
	KindCheckbox
	// KindTimeRange is a date range with optional bounds.
	KindTimeRange
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCheckbox:
		return "checkbox"
	case KindTimeRange:
		return "timerange"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Option is one selectable value of a checkbox field.
type Option struct {
	Label string
	Value string
}

// Field declares one filterable entity field.
type Field struct {
	// Label is the human-readable name shown in filter pickers.
	Label string
	// Key is the entity field key, unique within a table configuration.
	Key  string
	Kind Kind
	// Options is the option universe. Present iff Kind == KindCheckbox.
	Options []Option
}

// Fields is the declared set of filterable fields for one table.
type Fields []Field

// Validate checks the field-set invariants: unique keys, and options
// present exactly for checkbox fields.
func (fs Fields) Validate() error {
	seen := make(map[string]bool, len(fs))
	for _, f := range fs {
		if f.Key == "" {
			return fmt.Errorf("field %q has an empty key", f.Label)
		}
		if seen[f.Key] {
			return fmt.Errorf("duplicate field key %q", f.Key)
		}
		seen[f.Key] = true

		hasOptions := len(f.Options) > 0
		if f.Kind == KindCheckbox && !hasOptions {
			return fmt.Errorf("checkbox field %q has no options", f.Key)
		}
		if f.Kind != KindCheckbox && hasOptions {
			return fmt.Errorf("%s field %q must not declare options", f.Kind, f.Key)
		}
	}
	return nil
}

// ByKey returns the field with the given key.
func (fs Fields) ByKey(key string) (Field, bool) {
	for _, f := range fs {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Keys returns the declared field keys in declaration order.
func (fs Fields) Keys() []string {
	keys := make([]string, len(fs))
	for i, f := range fs {
		keys[i] = f.Key
	}
	return keys
}
