package content

import (
	"strings"
)

// categoryKeywords drives keyword-based category assignment for sources
// that do not supply a category of their own (mainly third-party news
// APIs). Title matches are weighted double.
var categoryKeywords = map[Category][]string{
	CategoryAI: {
		"artificial intelligence", "machine learning", "deep learning",
		"neural", "llm", "gpt", "chatgpt", "openai", "anthropic",
		"transformer", "inference", "model training", "generative",
	},
	CategoryTechnology: {
		"software", "programming", "developer", "startup", "app",
		"cloud", "kubernetes", "open source", "api", "framework",
		"javascript", "python", "linux", "cybersecurity", "chip",
	},
	CategoryBusiness: {
		"market", "economy", "investment", "funding", "acquisition",
		"revenue", "ipo", "stocks", "earnings", "venture capital",
		"startup funding", "merger", "quarterly",
	},
	CategoryDesign: {
		"design", "ux", "ui", "typography", "branding", "figma",
		"interface", "usability", "accessibility", "prototype",
	},
	CategoryScience: {
		"research", "study", "scientists", "physics", "biology",
		"space", "nasa", "climate", "quantum", "genome", "astronomy",
		"discovery", "experiment",
	},
}

// ClassifyCategory assigns a category by keyword matching against title
// and description. Title hits count double. Returns CategoryNews when
// nothing matches.
func ClassifyCategory(title, description string) Category {
	titleLower := strings.ToLower(title)
	descLower := strings.ToLower(description)

	best := CategoryNews
	bestScore := 0

	for _, category := range AllCategories() {
		keywords, ok := categoryKeywords[category]
		if !ok {
			continue
		}

		score := 0
		for _, kw := range keywords {
			if strings.Contains(titleLower, kw) {
				score += 2
			}
			if strings.Contains(descLower, kw) {
				score++
			}
		}

		if score > bestScore {
			bestScore = score
			best = category
		}
	}

	return best
}
