package spatial

import (
	"slices"
	"strings"
)

// Capability is a session feature name as the platform spells it.
type Capability string

const (
	CapabilityHitTest      Capability = "hit-test"
	CapabilityLocalFloor   Capability = "local-floor"
	CapabilityBoundedFloor Capability = "bounded-floor"
	CapabilityAnchors      Capability = "anchors"
)

// CapabilitySet is an ordered, duplicate-free feature list.
type CapabilitySet []Capability

// NewCapabilitySet trims, drops empties and duplicates, preserving order.
func NewCapabilitySet(in ...Capability) CapabilitySet {
	out := make(CapabilitySet, 0, len(in))
	for _, c := range in {
		c = Capability(strings.TrimSpace(string(c)))
		if c == "" || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ParseCapabilities converts config strings into a set.
func ParseCapabilities(in []string) CapabilitySet {
	caps := make([]Capability, 0, len(in))
	for _, raw := range in {
		caps = append(caps, Capability(raw))
	}
	return NewCapabilitySet(caps...)
}

func (s CapabilitySet) Has(c Capability) bool { return slices.Contains(s, c) }

func (s CapabilitySet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, c := range s {
		out = append(out, string(c))
	}
	return out
}

func (s CapabilitySet) String() string { return strings.Join(s.Strings(), ",") }
