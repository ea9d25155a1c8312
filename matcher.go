package bson

// linearMatcherThreshold is the target-set size below which FieldMatcher
// scans a plain slice rather than paying for a map. Ten matches the point
// at which a small linear scan and a hash lookup cost about the same in
// practice, and keeps tiny matchers (the common case: one or two fields)
// allocation-free beyond the slice itself.
const linearMatcherThreshold = 10

// FieldMatcher is a pure membership predicate over a fixed set of target
// field names, used by PartialParse to decide which fields to decode and
// which to skip. It is safe for concurrent use: Matches never mutates
// FieldMatcher state.
type FieldMatcher struct {
	names     []string
	set       map[string]struct{}
	earlyExit bool
}

// NewFieldMatcher builds a matcher for names. If earlyExit is true,
// PartialParse stops walking the document as soon as every name has been
// matched once, instead of walking to the terminator.
func NewFieldMatcher(names []string, earlyExit bool) *FieldMatcher {
	m := &FieldMatcher{earlyExit: earlyExit}
	if len(names) < linearMatcherThreshold {
		for _, n := range names {
			if !m.Matches(n) {
				m.names = append(m.names, n)
			}
		}
	} else {
		m.set = make(map[string]struct{}, len(names))
		for _, n := range names {
			m.set[n] = struct{}{}
		}
	}
	return m
}

// Len returns the number of distinct target fields.
func (m *FieldMatcher) Len() int {
	if m.set != nil {
		return len(m.set)
	}
	return len(m.names)
}

// Matches reports whether name is one of the matcher's targets. The two
// internal strategies (linear scan, hash lookup) are semantically
// indistinguishable to callers.
func (m *FieldMatcher) Matches(name string) bool {
	if m.set != nil {
		_, ok := m.set[name]
		return ok
	}
	for _, n := range m.names {
		if n == name {
			return true
		}
	}
	return false
}

// EarlyExit reports whether this matcher requests early termination once
// every target field has been found.
func (m *FieldMatcher) EarlyExit() bool { return m.earlyExit }
