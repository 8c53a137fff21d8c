package roster

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mokjangapp/mokjang-server/internal/domain"
)

// FamilyCard is one entry of the distinct-family list rendered
// alongside the member roster.
type FamilyCard struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// View is the output of one pipeline run: the filtered+sorted member
// list, the distinct family identifiers represented, and the family
// cards sorted by display label.
type View struct {
	Members   []*domain.Member `json:"members"`
	FamilyIDs []string         `json:"family_ids"`
	Families  []FamilyCard     `json:"families"`
}

// Summary carries the dashboard badges. It is always computed from
// the unfiltered collection so badges stay stable while browsing.
type Summary struct {
	TotalMembers       int `json:"total_members"`
	TotalFamilies      int `json:"total_families"`
	ActiveMembers      int `json:"active_members"`
	ActiveFamilies     int `json:"active_families"`
	BirthdaysThisMonth int `json:"birthdays_this_month"`
}

// Pipeline computes the roster views. A run is pure: it never mutates
// the source collection and identical inputs produce identical output.
type Pipeline struct {
	resolver *Resolver
}

func NewPipeline(resolver *Resolver) *Pipeline {
	return &Pipeline{resolver: resolver}
}

// Run applies menu filtering, the active-status filter, free-text
// search, family-view expansion, and sorting, in that order. families
// maps family identifiers to their rows for label resolution; missing
// entries fall back per domain.Label.
func (p *Pipeline) Run(members []*domain.Member, families map[string]*domain.Family, params Params) View {
	// collate.Collator carries internal buffers, so each run gets
	// its own.
	collator := collate.New(language.Korean)

	filtered := make([]*domain.Member, 0, len(members))
	for _, m := range members {
		if m == nil {
			continue
		}
		if !p.menuMatch(m, params) {
			continue
		}
		// Taxonomy filters intentionally show all statuses.
		if params.ActiveOnly && params.Menu != MenuFilter && !m.IsActive() {
			continue
		}
		if q := strings.TrimSpace(params.Search); q != "" && !matchesSearch(m, q) {
			continue
		}
		filtered = append(filtered, m)
	}

	// Distinct family set, taken before family-view expansion so
	// expansion cannot widen it.
	familyIDs := distinctFamilyIDs(filtered)

	if params.FamilyView {
		filtered = expandFamilies(members, filtered, familyIDs)
	}

	p.sortMembers(filtered, collator, params)

	return View{
		Members:   filtered,
		FamilyIDs: familyIDs,
		Families:  familyCards(members, families, familyIDs, collator),
	}
}

// Summarize computes the badge counts from the full collection,
// independent of any menu or filter state.
func (p *Pipeline) Summarize(members []*domain.Member, now time.Time) Summary {
	var s Summary
	activeFamilies := map[string]struct{}{}
	allFamilies := map[string]struct{}{}
	for _, m := range members {
		if m == nil {
			continue
		}
		s.TotalMembers++
		if m.FamilyID != "" {
			allFamilies[m.FamilyID] = struct{}{}
		}
		if m.IsActive() {
			s.ActiveMembers++
			if m.FamilyID != "" {
				activeFamilies[m.FamilyID] = struct{}{}
			}
		}
		if m.Birthday != nil && m.Birthday.Month() == now.Month() {
			s.BirthdaysThisMonth++
		}
	}
	s.TotalFamilies = len(allFamilies)
	s.ActiveFamilies = len(activeFamilies)
	return s
}

func (p *Pipeline) menuMatch(m *domain.Member, params Params) bool {
	switch params.Menu {
	case MenuBirthdays:
		return m.Birthday != nil && int(m.Birthday.Month())-1 == params.BirthdayMonth
	case MenuRecent:
		return m.RegistrationDate != nil && params.RecentRange.contains(*m.RegistrationDate)
	case MenuFilter:
		if params.Filter == nil {
			return true
		}
		return p.resolver.Matches(params.Filter.Parent, params.Filter.Child.Name, m)
	default:
		return true
	}
}

// matchesSearch matches case-insensitively against the Korean or
// English name, or matches the query's digits against the phone with
// all non-digits stripped, so "5551234" finds "604-555-1234".
func matchesSearch(m *domain.Member, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(m.KoreanName), q) ||
		strings.Contains(strings.ToLower(m.EnglishName), q) {
		return true
	}
	digits := stripNonDigits(q)
	return digits != "" && strings.Contains(stripNonDigits(m.Phone), digits)
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func distinctFamilyIDs(members []*domain.Member) []string {
	seen := map[string]struct{}{}
	ids := make([]string, 0)
	for _, m := range members {
		if m.FamilyID == "" {
			continue
		}
		if _, ok := seen[m.FamilyID]; ok {
			continue
		}
		seen[m.FamilyID] = struct{}{}
		ids = append(ids, m.FamilyID)
	}
	return ids
}

// expandFamilies replaces the individual-level result with every
// member of any family that has at least one match, keeping matched
// members that have no family of their own.
func expandFamilies(all, matched []*domain.Member, familyIDs []string) []*domain.Member {
	inSet := map[string]struct{}{}
	for _, id := range familyIDs {
		inSet[id] = struct{}{}
	}
	matchedIDs := map[string]struct{}{}
	for _, m := range matched {
		matchedIDs[m.ID] = struct{}{}
	}

	expanded := make([]*domain.Member, 0, len(matched))
	for _, m := range all {
		if m == nil {
			continue
		}
		if _, ok := inSet[m.FamilyID]; ok && m.FamilyID != "" {
			expanded = append(expanded, m)
			continue
		}
		if _, ok := matchedIDs[m.ID]; ok {
			expanded = append(expanded, m)
		}
	}
	return expanded
}

func (p *Pipeline) sortMembers(members []*domain.Member, collator *collate.Collator, params Params) {
	today := params.Today
	if today.IsZero() {
		today = time.Now()
	}

	switch {
	case params.Menu == MenuBirthdays:
		// Day of month ascending, localized name tiebreak.
		sort.SliceStable(members, func(i, j int) bool {
			di, dj := birthDay(members[i]), birthDay(members[j])
			if di != dj {
				return di < dj
			}
			return collator.CompareString(members[i].KoreanName, members[j].KoreanName) < 0
		})

	case strings.TrimSpace(params.Search) != "":
		// Family-view expansion may have pulled in non-matching
		// relatives, so re-check the match for bucketing.
		q := strings.TrimSpace(params.Search)
		sort.SliceStable(members, func(i, j int) bool {
			mi, mj := matchesSearch(members[i], q), matchesSearch(members[j], q)
			if mi != mj {
				return mi
			}
			hi, hj := members[i].IsHead(), members[j].IsHead()
			if hi != hj {
				return hi
			}
			return ageOrNegative(members[i], today) > ageOrNegative(members[j], today)
		})

	case params.Menu == MenuRecent:
		sort.SliceStable(members, func(i, j int) bool {
			ri, rj := registrationOrZero(members[i]), registrationOrZero(members[j])
			if !ri.Equal(rj) {
				return ri.After(rj)
			}
			return collator.CompareString(members[i].KoreanName, members[j].KoreanName) < 0
		})

	default:
		p.defaultSort(members, collator, params, today)
	}
}

func (p *Pipeline) defaultSort(members []*domain.Member, collator *collate.Collator, params Params, today time.Time) {
	desc := params.SortOrder == SortDesc
	less := func(i, j int) bool { return false }

	switch params.SortBy {
	case SortByAge:
		less = func(i, j int) bool {
			return ageOrNegative(members[i], today) < ageOrNegative(members[j], today)
		}
	case SortByBirthday:
		// Year-agnostic calendar position.
		less = func(i, j int) bool {
			mi, di := birthMonthDay(members[i])
			mj, dj := birthMonthDay(members[j])
			if mi != mj {
				return mi < mj
			}
			return di < dj
		}
	case SortByRecent:
		less = func(i, j int) bool {
			return registrationOrZero(members[i]).Before(registrationOrZero(members[j]))
		}
	default: // SortByName
		less = func(i, j int) bool {
			return collator.CompareString(members[i].KoreanName, members[j].KoreanName) < 0
		}
	}

	sort.SliceStable(members, func(i, j int) bool {
		if desc {
			return less(j, i)
		}
		return less(i, j)
	})
}

func familyCards(members []*domain.Member, families map[string]*domain.Family, familyIDs []string, collator *collate.Collator) []FamilyCard {
	heads := map[string]*domain.Member{}
	for _, m := range members {
		if m != nil && m.FamilyID != "" && m.IsHead() {
			if _, ok := heads[m.FamilyID]; !ok {
				heads[m.FamilyID] = m
			}
		}
	}

	cards := make([]FamilyCard, 0, len(familyIDs))
	for _, id := range familyIDs {
		cards = append(cards, FamilyCard{
			ID:    id,
			Label: domain.Label(families[id], heads[id]),
		})
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return collator.CompareString(cards[i].Label, cards[j].Label) < 0
	})
	return cards
}

func birthDay(m *domain.Member) int {
	if m.Birthday == nil {
		return 32
	}
	return m.Birthday.Day()
}

func birthMonthDay(m *domain.Member) (int, int) {
	if m.Birthday == nil {
		return 13, 32
	}
	return int(m.Birthday.Month()), m.Birthday.Day()
}

func ageOrNegative(m *domain.Member, today time.Time) int {
	age, ok := Age(m.Birthday, today)
	if !ok {
		return -1
	}
	return age
}

func registrationOrZero(m *domain.Member) time.Time {
	if m.RegistrationDate == nil {
		return time.Time{}
	}
	return *m.RegistrationDate
}
