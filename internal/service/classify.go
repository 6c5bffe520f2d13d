package service

import (
	"strings"

	"github.com/gira-airport/complaint-service/internal/domain"
)

// Keyword tables for automatic priority classification. Matching is
// case-insensitive substring matching; accented and unaccented spellings
// are both listed because traffic arrives in either form.
var (
	urgentCategoryKeywords = []string{"sécurité", "securite", "urgence", "medical", "médical"}
	highCategoryKeywords   = []string{"retard", "annulation", "vol", "bagage"}
	lowCategoryKeywords    = []string{"restauration", "commerce", "boutique"}

	urgentContentKeywords = []string{"urgent", "immédiat", "immediat", "danger", "accident", "blessé", "blesse", "malade"}
	highContentKeywords   = []string{"important", "critique", "problème", "probleme"}
)

// ClassifyPriority derives the initial priority of a complaint from its
// category name and free text. Category keywords set a base priority,
// content keywords can only raise it, never lower it.
func ClassifyPriority(categoryName, title, description string) domain.ComplaintPriority {
	category := strings.ToLower(categoryName)
	content := strings.ToLower(title + " " + description)

	priority := domain.PriorityNormal
	switch {
	case containsAny(category, urgentCategoryKeywords):
		priority = domain.PriorityUrgent
	case containsAny(category, highCategoryKeywords):
		priority = domain.PriorityHigh
	case containsAny(category, lowCategoryKeywords):
		priority = domain.PriorityLow
	}

	if containsAny(content, urgentContentKeywords) {
		return domain.PriorityUrgent
	}
	if containsAny(content, highContentKeywords) && !priority.AtLeast(domain.PriorityHigh) {
		return domain.PriorityHigh
	}
	return priority
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
