package naming

import "strings"

// Singularize heuristically converts a plural collection key to a singular
// noun. It is used only to derive a readable name for an inferred array
// element type from its parent attribute key, so the rules favor the plural
// forms that actually occur in content schemas:
//
//	categories -> category
//	addresses  -> address
//	quizzes    -> quiz
//	posts      -> post
//	boss       -> boss (double-s guard)
//	us         -> us   (length guard)
func Singularize(word string) string {
	if strings.HasSuffix(word, "ies") && len(word) > 3 {
		return word[:len(word)-3] + "y"
	}
	// Doubled-z plurals drop the doubled consonant too.
	if strings.HasSuffix(word, "zzes") && len(word) > 4 {
		return word[:len(word)-3]
	}
	for _, suffix := range []string{"sses", "shes", "ches", "xes", "zes"} {
		if strings.HasSuffix(word, suffix) {
			return word[:len(word)-2]
		}
	}
	if strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") && len(word) > 2 {
		return word[:len(word)-1]
	}
	return word
}
