package schedule

// =============================================================================
// COMPATIBILITY RULES - Shifts that cannot share a date
// =============================================================================

// exclusions lists, per candidate id, the ids that block it when already
// assigned to the same date. Ids not listed here are unconstrained.
var exclusions = map[ShiftID][]ShiftID{
	"9-4":   {"12-10"},
	"12-10": {"9-4", "4-10"},
	"4-10":  {"12-10"},
}

// CanAssign reports whether id may be added to a date that already holds
// current. Removal is never checked.
func CanAssign(id ShiftID, current []ShiftID) bool {
	return len(Conflicts(id, current)) == 0
}

// Conflicts returns the ids in current that block id, in the order they
// appear in current.
func Conflicts(id ShiftID, current []ShiftID) []ShiftID {
	blocked := exclusions[id]
	if len(blocked) == 0 {
		return nil
	}
	var out []ShiftID
	for _, c := range current {
		for _, b := range blocked {
			if c == b {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
