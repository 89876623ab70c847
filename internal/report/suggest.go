package report

import (
	"github.com/antzucaro/matchr"
	"golang.org/x/text/cases"
)

// minSimilarity is the Jaro-Winkler score below which no suggestion is made
const minSimilarity = 0.8

// Suggest returns the squad name closest to team. A case-insensitive exact
// match always wins; otherwise the best Jaro-Winkler score above
// minSimilarity is used.
func Suggest(team string, squads []string) (string, bool) {
	folder := cases.Fold()
	key := folder.String(team)

	best, bestScore := "", 0.0
	for _, s := range squads {
		folded := folder.String(s)
		if folded == key {
			return s, true
		}
		if score := matchr.JaroWinkler(key, folded, false); score > bestScore {
			best, bestScore = s, score
		}
	}

	if bestScore < minSimilarity {
		return "", false
	}
	return best, true
}
