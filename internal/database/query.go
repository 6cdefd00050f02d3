package database

import "strings"

// ListOptions carries the list filters accepted by the catalog endpoints.
type ListOptions struct {
	Search   string
	Ordering string
}

// OrderClause maps an ordering parameter such as "title" or "-created_at" to
// an ORDER BY clause. Fields missing from allowed yield fallback.
func OrderClause(ordering string, allowed map[string]string, fallback string) string {
	ordering = strings.TrimSpace(ordering)
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")

	column, ok := allowed[field]
	if !ok || field == "" {
		return fallback
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}

// LikePattern builds a substring pattern for LIKE with '\' as the escape
// character. SQLite LIKE folds ASCII case and matches other text as written.
func LikePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}
