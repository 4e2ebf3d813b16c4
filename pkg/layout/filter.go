package layout

import "sort"

// Select returns the variables to display. A nil selection means every
// declared variable. Names are deduplicated and sorted; they are not checked
// against the declared list, so an unknown name yields an empty column.
func Select(declared, selected []string) []string {
	src := selected
	if src == nil {
		src = declared
	}
	return normalize(src)
}

func normalize(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
