package ui

import (
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
)

// Style is how an enumerated value is shown: its label, color classes and an optional icon.
type Style struct {
	Label string
	Class string
	Icon  string
}

var categoryStyles = map[model.Category]Style{
	model.CategoryHealthFitness:  {Class: "bg-green-100 text-green-800 dark:bg-green-900 dark:text-green-200", Icon: "heart-pulse"},
	model.CategoryCareer:         {Class: "bg-blue-100 text-blue-800 dark:bg-blue-900 dark:text-blue-200", Icon: "briefcase"},
	model.CategoryLearning:       {Class: "bg-purple-100 text-purple-800 dark:bg-purple-900 dark:text-purple-200", Icon: "book-open"},
	model.CategoryFinance:        {Class: "bg-yellow-100 text-yellow-800 dark:bg-yellow-900 dark:text-yellow-200", Icon: "piggy-bank"},
	model.CategoryRelationships:  {Class: "bg-pink-100 text-pink-800 dark:bg-pink-900 dark:text-pink-200", Icon: "users"},
	model.CategoryPersonalGrowth: {Class: "bg-orange-100 text-orange-800 dark:bg-orange-900 dark:text-orange-200", Icon: "sprout"},
	model.CategoryOther:          {Class: "bg-slate-100 text-slate-800 dark:bg-slate-800 dark:text-slate-200"},
}

// CategoryStyle has an entry for every category. ok is false only for values outside
// model.Categories, which callers treat as a bug rather than rendering a fallback.
func CategoryStyle(c model.Category) (Style, bool) {
	style, ok := categoryStyles[c]
	if !ok {
		return Style{}, false
	}
	style.Label = string(c)
	return style, true
}

var statusStyles = map[model.Status]Style{
	model.StatusNotStarted: {Label: "Not Started", Class: "bg-slate-100 text-slate-700 dark:bg-slate-800 dark:text-slate-300"},
	model.StatusInProgress: {Label: "In Progress", Class: "bg-blue-100 text-blue-700 dark:bg-blue-900 dark:text-blue-300"},
	model.StatusCompleted:  {Label: "Completed", Class: "bg-green-100 text-green-700 dark:bg-green-900 dark:text-green-300"},
	model.StatusAbandoned:  {Label: "Abandoned", Class: "bg-red-100 text-red-700 dark:bg-red-900 dark:text-red-300"},
}

const mutedClass = "bg-muted text-muted-foreground"

// StatusStyle falls back to a muted badge showing the raw value for unknown statuses.
func StatusStyle(s model.Status) Style {
	style, ok := statusStyles[s]
	if !ok {
		return Style{Label: string(s), Class: mutedClass}
	}
	return style
}
