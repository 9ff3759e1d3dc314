package callpath

import "github.com/antzucaro/matchr"

// reconcileThreshold is how close (Jaro-Winkler similarity, 0..1) two region
// names from different ranks must be to be folded into the same bucket.
// Symbol demangling sometimes differs by a compiler-version suffix between
// ranks in a heterogeneous job, so an exact string match is too strict.
const reconcileThreshold = 0.92

// Reconcile groups region names collected from possibly-heterogeneous ranks
// into canonical buckets, fuzzy-matching near-identical demangled names
// (e.g. a trailing ".constprop.0" a newer compiler adds) rather than
// treating them as distinct regions. It returns a map from each observed
// name to the canonical name its bucket settled on — the first name seen
// in a bucket.
func Reconcile(names []string) map[string]string {
	canonical := make([]string, 0, len(names))
	result := make(map[string]string, len(names))

	for _, name := range names {
		best := ""
		bestScore := 0.0
		for _, c := range canonical {
			score := matchr.JaroWinkler(name, c, true)
			if score > bestScore {
				bestScore, best = score, c
			}
		}
		if best != "" && bestScore >= reconcileThreshold {
			result[name] = best
			continue
		}
		canonical = append(canonical, name)
		result[name] = name
	}
	return result
}
