package table

// ColumnFilter is one active filter: a field key plus a typed value.
type ColumnFilter struct {
	Key   string
	Value Value
}

// Filters is an ordered set of column filters with at most one entry per
// field key. Mutating helpers return copies so functional state updates
// never alias the stored slice.
type Filters []ColumnFilter

// Get returns the value filtering key, if any.
func (f Filters) Get(key string) (Value, bool) {
	for _, cf := range f {
		if cf.Key == key {
			return cf.Value, true
		}
	}
	return nil, false
}

// With returns a copy with key set to v. An empty (or nil) value removes
// the entry instead of storing it.
func (f Filters) With(key string, v Value) Filters {
	if v == nil || v.Empty() {
		return f.Without(key)
	}
	out := make(Filters, 0, len(f)+1)
	replaced := false
	for _, cf := range f {
		if cf.Key == key {
			out = append(out, ColumnFilter{Key: key, Value: v})
			replaced = true
		} else {
			out = append(out, cf)
		}
	}
	if !replaced {
		out = append(out, ColumnFilter{Key: key, Value: v})
	}
	return out
}

// Without returns a copy with any entry for key removed.
func (f Filters) Without(key string) Filters {
	out := make(Filters, 0, len(f))
	for _, cf := range f {
		if cf.Key != key {
			out = append(out, cf)
		}
	}
	return out
}

// Clone returns a shallow copy of the filter set.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	copy(out, f)
	return out
}
