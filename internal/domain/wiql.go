package domain

import (
	"fmt"
	"strings"
)

// TitleQuery builds a WIQL query selecting work items of the given type whose title equals title.
func TitleQuery(itemType, title string) string {
	return fmt.Sprintf(
		"SELECT [System.Id] FROM WorkItems WHERE [System.WorkItemType] = '%s' AND [System.Title] = '%s'",
		wiqlEscape(itemType),
		wiqlEscape(title),
	)
}

// wiqlEscape doubles single quotes, which is how WIQL escapes them inside string literals.
func wiqlEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
