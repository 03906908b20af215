package spatial

import "testing"

func TestReferenceSpaceTiers(t *testing.T) {
	cases := map[ReferenceSpaceKind]StabilityTier{
		SpaceBoundedFloor: TierFloor,
		SpaceLocalFloor:   TierFloor,
		SpaceLocal:        TierDevice,
		SpaceViewer:       TierViewer,
		"unbounded":       TierUnknown,
	}
	for kind, want := range cases {
		if got := kind.Tier(); got != want {
			t.Fatalf("%s: got tier %s want %s", kind, got, want)
		}
	}
	if ReferenceSpaceKind("unbounded").Known() {
		t.Fatalf("expected unknown kind")
	}
}

func TestDefaultSpaceOrderDescends(t *testing.T) {
	order := DefaultSpaceOrder()
	for i := 1; i < len(order); i++ {
		if order[i].Tier() >= order[i-1].Tier() {
			t.Fatalf("order not descending at %d: %v", i, order)
		}
	}
}

func TestCapabilitySetNormalizes(t *testing.T) {
	set := ParseCapabilities([]string{" hit-test", "local-floor", "", "hit-test"})
	if len(set) != 2 {
		t.Fatalf("unexpected set: %v", set)
	}
	if !set.Has(CapabilityHitTest) || !set.Has(CapabilityLocalFloor) {
		t.Fatalf("missing capability: %v", set)
	}
	if set.String() != "hit-test,local-floor" {
		t.Fatalf("unexpected string: %q", set.String())
	}
}
