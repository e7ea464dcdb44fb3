package rules

import "github.com/nathoo/madori/types"

// MatchesAction checks if an action is defined for the given chapter and room.
func MatchesAction(a types.ActionDef, chapter int, room string) bool {
	return a.Chapter == chapter && a.Room == room
}

// Specificity returns a numeric score for ranking actions.
// Actions guarded by more conditions are more specific.
func Specificity(a types.ActionDef) int {
	return len(a.Conditions)
}
