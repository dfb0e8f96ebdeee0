package cafcore

import "testing"

func TestTreeBuildingMethodSet(t *testing.T) {
	var m TreeBuildingMethod
	if err := m.Set("guidedNeighborJoining"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != GuidedNeighborJoining {
		t.Errorf("expected GuidedNeighborJoining, got %v", m)
	}
	if err := m.Set("bogus"); err == nil {
		t.Errorf("expected an error for an unknown tree building method")
	}
}

func TestRootingMethodSet(t *testing.T) {
	var m RootingMethod
	if err := m.Set("bestRecon"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != BestRecon {
		t.Errorf("expected BestRecon, got %v", m)
	}
	if err := m.Set("bogus"); err == nil {
		t.Errorf("expected an error for an unknown rooting method")
	}
}

func TestScoringMethodSet(t *testing.T) {
	var m ScoringMethod
	if err := m.Set("combinedLikelihood"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != CombinedLikelihood {
		t.Errorf("expected CombinedLikelihood, got %v", m)
	}
	if err := m.Set("bogus"); err == nil {
		t.Errorf("expected an error for an unknown scoring method")
	}
}

func TestValidateRejectsGuidedNJWithoutBestRecon(t *testing.T) {
	c := DefaultConfig()
	c.TreeBuildingMethod = GuidedNeighborJoining
	c.RootingMethod = OutgroupBranch
	if err := c.Validate(); err == nil {
		t.Errorf("expected guidedNeighborJoining + non-bestRecon rooting to be rejected")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestValidateRejectsZeroTrees(t *testing.T) {
	c := DefaultConfig()
	c.NumTrees = 0
	if err := c.Validate(); err == nil {
		t.Errorf("expected numTrees=0 to be rejected")
	}
}
