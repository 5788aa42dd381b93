package game

import "testing"

func TestTally_Majority(t *testing.T) {
	votes := map[string]string{
		"p1": "left",
		"p2": "left",
		"p3": "right",
	}
	got := tally(votes, []string{"left", "right"})
	if got != "left" {
		t.Errorf("tally() = %q, want %q", got, "left")
	}
}

func TestTally_TieBreaksByDeclarationOrder(t *testing.T) {
	votes := map[string]string{
		"p1": "left",
		"p2": "left",
		"p3": "right",
		"p4": "right",
	}

	got := tally(votes, []string{"left", "right"})
	if got != "left" {
		t.Errorf("tally() = %q, want %q (earliest declared wins ties)", got, "left")
	}

	// Reversing the declaration order flips the tie-break.
	got = tally(votes, []string{"right", "left"})
	if got != "right" {
		t.Errorf("tally() = %q, want %q", got, "right")
	}
}

func TestTally_SingleVoter(t *testing.T) {
	votes := map[string]string{"p1": "right"}
	got := tally(votes, []string{"left", "right"})
	if got != "right" {
		t.Errorf("tally() = %q, want %q", got, "right")
	}
}

func TestTally_DoesNotMutateInput(t *testing.T) {
	votes := map[string]string{
		"p1": "left",
		"p2": "right",
	}
	order := []string{"left", "right"}

	tally(votes, order)

	if len(votes) != 2 || votes["p1"] != "left" || votes["p2"] != "right" {
		t.Errorf("votes mutated: %v", votes)
	}
	if order[0] != "left" || order[1] != "right" {
		t.Errorf("choice order mutated: %v", order)
	}
}

func TestTally_EmptyVotes(t *testing.T) {
	got := tally(map[string]string{}, []string{"left", "right"})
	if got != "" {
		t.Errorf("tally() = %q, want empty winner for empty votes", got)
	}
}
