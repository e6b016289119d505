package viewmodel

import (
	"sort"
	"strconv"

	"github.com/memorylane/memorylane/internal/client/models"
)

// SpecialGroup labels the catch-all bucket for milestones without a number.
const SpecialGroup = "Special"

// MilestoneGroup is one numbered stage, or the Special catch-all.
type MilestoneGroup struct {
	Label   string
	Number  int
	Special bool
	Items   []models.Memory
}

// GroupMilestones buckets memories by milestone number. Numeric groups sort
// ascending; the Special group always sorts last.
func GroupMilestones(memories []models.Memory) []MilestoneGroup {
	byNumber := map[int][]models.Memory{}
	var special []models.Memory
	for _, m := range memories {
		if m.MilestoneNumber == nil {
			special = append(special, m)
			continue
		}
		n := *m.MilestoneNumber
		byNumber[n] = append(byNumber[n], m)
	}

	numbers := make([]int, 0, len(byNumber))
	for n := range byNumber {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	groups := make([]MilestoneGroup, 0, len(numbers)+1)
	for _, n := range numbers {
		groups = append(groups, MilestoneGroup{
			Label:  strconv.Itoa(n),
			Number: n,
			Items:  byNumber[n],
		})
	}
	if len(special) > 0 {
		groups = append(groups, MilestoneGroup{Label: SpecialGroup, Special: true, Items: special})
	}
	return groups
}
