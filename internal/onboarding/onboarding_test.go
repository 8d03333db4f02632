package onboarding

import (
	"strings"
	"testing"

	"docbot/internal/profile"
)

func TestFullOnboardingFlow(t *testing.T) {
	p := profile.New("alice")

	steps := []struct {
		message   string
		wantStage string
	}{
		{"34", profile.StageWeight},
		{"62", profile.StageMedications},
		{"azathioprine, vitamin D", profile.StageEmergencyContact},
		{"sibling@example.com", profile.StageNewsPref},
		{"YouTube", profile.StageCondition},
		{"Crohn's", profile.StageDone},
	}

	for _, step := range steps {
		_, p = Advance(p, step.message)
		if p.Stage != step.wantStage {
			t.Fatalf("after %q: stage %q, want %q", step.message, p.Stage, step.wantStage)
		}
	}

	if !p.Onboarded() {
		t.Fatal("profile should be onboarded")
	}
	if p.Age != 34 || p.Condition != "Crohn's" || p.NewsPref != "YouTube" {
		t.Fatalf("profile fields not captured: %+v", p)
	}
	if len(p.Medications) != 2 || p.Medications[0] != "azathioprine" {
		t.Fatalf("medications not split: %v", p.Medications)
	}
}

func TestInvalidAgeRepeatsStage(t *testing.T) {
	p := profile.New("bob")
	reply, p := Advance(p, "thirty")
	if p.Stage != profile.StageAge {
		t.Fatalf("stage advanced on invalid age: %q", p.Stage)
	}
	if !strings.Contains(reply, "valid age") {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestInvalidNewsPrefRepeatsStage(t *testing.T) {
	p := profile.New("bob")
	p.Stage = profile.StageNewsPref
	_, p = Advance(p, "Morse code")
	if p.Stage != profile.StageNewsPref {
		t.Fatalf("stage advanced on invalid preference: %q", p.Stage)
	}
}

func TestInvalidConditionRepeatsStage(t *testing.T) {
	p := profile.New("bob")
	p.Stage = profile.StageCondition
	_, p = Advance(p, "hay fever")
	if p.Stage != profile.StageCondition {
		t.Fatalf("stage advanced on invalid condition: %q", p.Stage)
	}
}
