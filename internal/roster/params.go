package roster

import (
	"time"

	"github.com/mokjangapp/mokjang-server/internal/domain"
)

// Menu selects the dashboard view being computed.
type Menu string

const (
	MenuActive    Menu = "active"
	MenuBirthdays Menu = "birthdays"
	MenuRecent    Menu = "recent"
	MenuFilter    Menu = "filter"
	MenuSettings  Menu = "settings"
)

// SortBy names the default-path sort key.
type SortBy string

const (
	SortByName     SortBy = "name"
	SortByAge      SortBy = "age"
	SortByBirthday SortBy = "birthday"
	SortByRecent   SortBy = "recent"
)

// SortOrder is the sort direction for the default path.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TaxonomyFilter is the selected child category plus its parent,
// used when the menu is MenuFilter.
type TaxonomyFilter struct {
	Parent domain.ParentList
	Child  domain.ChildList
}

// DateRange bounds registration dates inclusively. A zero endpoint
// leaves that side unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// Params are the view parameters driving one pipeline run.
type Params struct {
	Menu       Menu
	ActiveOnly bool
	Filter     *TaxonomyFilter
	Search     string
	SortBy     SortBy
	SortOrder  SortOrder
	FamilyView bool

	// RecentRange bounds registration_date when Menu is MenuRecent.
	RecentRange DateRange

	// BirthdayMonth selects a calendar month (0=January .. 11=December)
	// when Menu is MenuBirthdays.
	BirthdayMonth int

	// Today anchors age computation for age sorting.
	Today time.Time
}
