// Package scoring содержит чистые правила: приоритет, отдел, авто-категоризацию текста, вес точки тепловой карты.
package scoring

import (
	"regexp"
	"strings"

	"github.com/shenikar/civic_issue_tracker/internal/models"
)

const DefaultDepartment = "General Administration"

var basePriority = map[models.IssueCategory]models.Priority{
	models.CategoryWater:       models.PriorityHigh,
	models.CategoryElectricity: models.PriorityHigh,
	models.CategoryPothole:     models.PriorityMedium,
	models.CategorySewage:      models.PriorityMedium,
	models.CategoryTraffic:     models.PriorityMedium,
	models.CategoryGarbage:     models.PriorityLow,
	models.CategoryStreetlight: models.PriorityLow,
	models.CategoryVandalism:   models.PriorityLow,
	models.CategoryOther:       models.PriorityLow,
}

var departments = map[models.IssueCategory]string{
	models.CategoryPothole:     "Roads & Transportation",
	models.CategoryGarbage:     "Waste Management",
	models.CategoryStreetlight: "Electricity",
	models.CategoryWater:       "Water Supply",
	models.CategoryElectricity: "Electricity",
	models.CategorySewage:      "Sanitation",
	models.CategoryTraffic:     "Traffic Police",
	models.CategoryVandalism:   "Municipal Administration",
	models.CategoryOther:       DefaultDepartment,
}

// PriorityFor возвращает max(базовый уровень категории, уровень по голосам)
func PriorityFor(category models.IssueCategory, votes int) models.Priority {
	level := models.PriorityLow.Level()
	if base, ok := basePriority[category]; ok {
		level = base.Level()
	}

	var voteLevel int
	switch {
	case votes >= 20:
		voteLevel = models.PriorityUrgent.Level()
	case votes >= 10:
		voteLevel = models.PriorityHigh.Level()
	case votes >= 5:
		voteLevel = models.PriorityMedium.Level()
	}

	return models.PriorityFromLevel(max(level, voteLevel))
}

// DepartmentFor возвращает ответственный отдел для категории
func DepartmentFor(category models.IssueCategory) string {
	if dept, ok := departments[category]; ok {
		return dept
	}
	return DefaultDepartment
}

type keywordSet struct {
	category models.IssueCategory
	keywords []keyword
}

type keyword struct {
	text  string
	whole *regexp.Regexp
}

// порядок слайса задает тай-брейк при равных очках
var categoryKeywords = buildKeywordSets([]struct {
	category models.IssueCategory
	words    []string
}{
	{models.CategoryPothole, []string{"pothole", "hole", "road damage", "crater", "broken road", "asphalt damage", "road hazard"}},
	{models.CategoryGarbage, []string{"garbage", "trash", "waste", "litter", "dump", "debris", "rubbish", "waste collection"}},
	{models.CategoryStreetlight, []string{"streetlight", "light", "lamp post", "street lamp", "lighting", "pole", "dark street"}},
	{models.CategoryWater, []string{"water", "pipe", "leakage", "tap", "supply", "drainage", "flood", "overflow", "sewage"}},
	{models.CategoryElectricity, []string{"electricity", "power", "outage", "electric", "transformer", "wires", "blackout"}},
	{models.CategorySewage, []string{"sewage", "drain", "clogged", "blockage", "manhole", "sewer", "overflow", "drainage"}},
	{models.CategoryTraffic, []string{"traffic", "signal", "jam", "congestion", "road block", "accident", "crossing"}},
	{models.CategoryVandalism, []string{"vandalism", "graffiti", "damage", "broken", "destroyed", "defacement", "property damage"}},
})

func buildKeywordSets(raw []struct {
	category models.IssueCategory
	words    []string
}) []keywordSet {
	sets := make([]keywordSet, 0, len(raw))
	for _, r := range raw {
		set := keywordSet{category: r.category}
		for _, w := range r.words {
			set.keywords = append(set.keywords, keyword{
				text:  w,
				whole: regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`),
			})
		}
		sets = append(sets, set)
	}
	return sets
}

// Categorize подбирает категорию по ключевым словам: целое слово 2 очка, подстрока 1
func Categorize(text string) models.IssueCategory {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return models.CategoryOther
	}

	best := models.CategoryOther
	bestScore := 0
	for _, set := range categoryKeywords {
		score := 0
		for _, kw := range set.keywords {
			if !strings.Contains(lower, kw.text) {
				continue
			}
			if kw.whole.MatchString(lower) {
				score += 2
			} else {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = set.category
		}
	}
	return best
}

var (
	urgentKeywords = []string{"urgent", "emergency", "immediately", "dangerous", "hazard", "accident", "critical", "severe"}
	highKeywords   = []string{"important", "serious", "significant", "major", "big problem", "many people"}
	mediumKeywords = []string{"problem", "issue", "fix", "repair", "attention"}
)

// EstimatePriority оценивает срочность по тексту; не связан с PriorityFor
func EstimatePriority(text string) models.Priority {
	lower := strings.ToLower(text)
	tiers := []struct {
		priority models.Priority
		words    []string
	}{
		{models.PriorityUrgent, urgentKeywords},
		{models.PriorityHigh, highKeywords},
		{models.PriorityMedium, mediumKeywords},
	}
	for _, tier := range tiers {
		for _, w := range tier.words {
			if strings.Contains(lower, w) {
				return tier.priority
			}
		}
	}
	return models.PriorityLow
}
