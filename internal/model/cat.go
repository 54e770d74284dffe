package model

// Cat is a document in the cat collection.
// This is a pure domain model with no database-specific tags; the document
// shape lives in the repository implementation.
type Cat struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Age      int      `json:"age"`
	Features []string `json:"features"`
}

// UniqueFeatures returns features with duplicates and empty values removed,
// keeping the first occurrence order. It never returns nil.
func UniqueFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	seen := make(map[string]struct{}, len(features))
	for _, f := range features {
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
