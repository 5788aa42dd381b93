package game

// tally picks the winning choice from a round of votes. The choice with
// the strictly highest vote count wins; ties go to the choice declared
// earliest in choiceOrder. Returns "" only if votes is empty.
func tally(votes map[string]string, choiceOrder []string) string {
	counts := make(map[string]int, len(choiceOrder))
	for _, choiceID := range votes {
		counts[choiceID]++
	}

	winner := ""
	max := 0
	for _, choiceID := range choiceOrder {
		if counts[choiceID] > max {
			max = counts[choiceID]
			winner = choiceID
		}
	}
	return winner
}
