package rules

import (
	"sort"

	"github.com/nathoo/madori/types"
)

// SelectAction returns the action for examining the current room in the
// current chapter. Each (chapter, room) pair resolves to at most one action:
// candidates are filtered by their conditions, then ranked by specificity
// (desc) and source order (asc). Returns false for undefined pairs.
func SelectAction(actions []types.ActionDef, s *types.State) (types.ActionDef, bool) {
	var candidates []types.ActionDef
	for _, a := range actions {
		if !MatchesAction(a, s.Chapter, s.CurrentRoom) {
			continue
		}
		if !EvalAllConditions(a.Conditions, s) {
			continue
		}
		candidates = append(candidates, a)
	}

	if len(candidates) == 0 {
		return types.ActionDef{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := Specificity(candidates[i]), Specificity(candidates[j])
		if si != sj {
			return si > sj
		}
		return candidates[i].SourceOrder < candidates[j].SourceOrder
	})

	return candidates[0], true
}
