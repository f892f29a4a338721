package domain

// ZodiacSigns is the fixed catalog of subjects daily content is generated
// for, in the order batches are composed when no user profiles are available.
var ZodiacSigns = []string{
	"aries",
	"taurus",
	"gemini",
	"cancer",
	"leo",
	"virgo",
	"libra",
	"scorpio",
	"sagittarius",
	"capricorn",
	"aquarius",
	"pisces",
}

// Languages lists the output languages supported for generated content.
var Languages = []string{"de", "en"}

// DefaultLanguage is the fallback when a profile carries no language
// preference.
const DefaultLanguage = "de"

// WorkItem identifies one unit of generation: one zodiac sign in one
// output language. The (Sign, Language) pair is unique within a single
// enumerated run; the enumerator collapses duplicates before batching.
type WorkItem struct {
	Sign     string
	Language string
}

// Key returns the canonical "sign:language" form of the item, used for
// deduplication and logging.
func (w WorkItem) Key() string {
	return w.Sign + ":" + w.Language
}

// IsZodiacSign reports whether s is one of the twelve catalog signs.
func IsZodiacSign(s string) bool {
	for _, sign := range ZodiacSigns {
		if sign == s {
			return true
		}
	}
	return false
}

// AllWorkItems returns the full sign x language cartesian product in
// catalog order. This is the enumerator's fallback set.
func AllWorkItems() []WorkItem {
	items := make([]WorkItem, 0, len(ZodiacSigns)*len(Languages))
	for _, sign := range ZodiacSigns {
		for _, lang := range Languages {
			items = append(items, WorkItem{Sign: sign, Language: lang})
		}
	}
	return items
}
