package service

import (
	"strings"
	"unicode"

	"github.com/beauteq/salonbot/internal/domain"
)

// specializationSynonyms maps colloquial terms to real specializations.
// Ordered; the first keyword contained in the input wins.
var specializationSynonyms = []struct {
	Keyword        string
	Specialization string
}{
	{"парикмахер", "Парикмахер-стилист"},
	{"стилист", "Парикмахер-стилист"},
	{"волосы", "Парикмахер-стилист"},
	{"стрижка", "Парикмахер-стилист"},
	{"окрашивание", "Парикмахер-стилист"},
	{"косметолог", "Косметолог"},
	{"кожа", "Косметолог"},
	{"чистка", "Косметолог"},
	{"пилинг", "Косметолог"},
	{"маникюр", "Мастер маникюра"},
	{"ногти", "Мастер маникюра"},
	{"гель-лак", "Мастер маникюра"},
	{"визажист", "Визажист"},
	{"макияж", "Визажист"},
}

// categoryKeywords decides which specializations may perform a service
// category during the booking flow.
var categoryKeywords = map[string][]string{
	"Парикмахерские":  {"парикмахер", "стилист"},
	"Косметология":    {"косметолог"},
	"Ногтевой сервис": {"маникюр", "ногтевой"},
	"Визаж":           {"визажист"},
}

// NormalizeSpecialization maps a free-text specialization to its canonical
// form. Falls back to the input with the first letter upcased, so an exact
// specialization typed in lowercase still filters correctly.
func NormalizeSpecialization(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}
	for _, syn := range specializationSynonyms {
		if strings.Contains(input, syn.Keyword) {
			return syn.Specialization
		}
	}
	return upperFirst(input)
}

// NormalizeCategory maps a free-text category to its canonical form.
func NormalizeCategory(input string) string {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return ""
	}
	for category := range categoryKeywords {
		if strings.Contains(in, strings.ToLower(category)) {
			return category
		}
	}
	return upperFirst(in)
}

// MasterSuits reports whether the master's specialization qualifies for the
// service category.
func MasterSuits(master domain.Master, category string) bool {
	keywords, ok := categoryKeywords[category]
	if !ok {
		return false
	}
	spec := strings.ToLower(master.Specialization)
	for _, kw := range keywords {
		if strings.Contains(spec, kw) {
			return true
		}
	}
	return false
}

// nameMatches is the shared containment rule: case-insensitive, a candidate
// matches if any whitespace token of its name occurs in the input, or the
// input occurs in the name.
func nameMatches(input, name string) bool {
	input = strings.ToLower(strings.TrimSpace(input))
	name = strings.ToLower(name)
	if input == "" {
		return false
	}
	for _, token := range strings.Fields(name) {
		if strings.Contains(input, token) {
			return true
		}
	}
	return strings.Contains(name, input)
}

// ResolveMaster returns the first master matching the reference, in store
// enumeration order. No scoring: when two candidates match, the first wins.
func ResolveMaster(input string, masters []domain.Master) (domain.Master, bool) {
	for _, m := range masters {
		if nameMatches(input, m.Name) {
			return m, true
		}
	}
	return domain.Master{}, false
}

// ResolveService returns the first service matching the reference, in store
// enumeration order.
func ResolveService(input string, services []domain.Service) (domain.Service, bool) {
	for _, s := range services {
		if nameMatches(input, s.Name) {
			return s, true
		}
	}
	return domain.Service{}, false
}

func upperFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
