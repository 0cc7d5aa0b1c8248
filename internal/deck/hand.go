package deck

// HandValue computes the flat sum of base card values in a hand, counting
// every wild card (physical joker or a card matching wildRank) as zero.
// No set or sequence discounts apply.
func HandValue(hand []Card, wildRank Rank) int {
	total := 0
	for _, c := range hand {
		if c.WildFor(wildRank) {
			continue
		}
		total += c.Value
	}
	return total
}
