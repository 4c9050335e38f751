package domain

import (
	"errors"
	"testing"
)

func TestPermissiveStageRuleAcceptsAnyCombination(t *testing.T) {
	sub := GenuineFirstCallDone
	if err := PermissiveStageRule(StageRawLead, &sub); err != nil {
		t.Fatalf("expected permissive rule to accept sub-status on Raw lead, got %v", err)
	}
	if err := PermissiveStageRule(StageJunk, nil); err != nil {
		t.Fatalf("expected permissive rule to accept nil sub-status, got %v", err)
	}
}

func TestStrictStageRuleRejectsSubStatusOutsideGenuineStage(t *testing.T) {
	sub := GenuineEstimatesShared

	err := StrictStageRule(StageInContact, &sub)
	if !errors.Is(err, ErrSubStatusRequiresGenuineStage) {
		t.Fatalf("expected ErrSubStatusRequiresGenuineStage, got %v", err)
	}

	if err := StrictStageRule(StageGenuineLead, &sub); err != nil {
		t.Fatalf("expected sub-status on Genuine Lead stage to pass, got %v", err)
	}
	if err := StrictStageRule(StageInContact, nil); err != nil {
		t.Fatalf("expected nil sub-status to pass on any stage, got %v", err)
	}
}
