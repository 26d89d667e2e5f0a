package collection

import "strings"

// SortField is a metadata attribute a playlist can be ordered by.
type SortField int

const (
	SortNone SortField = iota
	SortYear
	SortManufacturer
	SortDeveloper
	SortGenre
	SortNumberPlayers
	SortNumberButtons
	SortCtrlType
	SortJoyWays
	SortRating
	SortScore
	SortLastPlayed
	SortPlayCount
)

var sortFieldNames = map[SortField]string{
	SortYear:          "year",
	SortManufacturer:  "manufacturer",
	SortDeveloper:     "developer",
	SortGenre:         "genre",
	SortNumberPlayers: "numberPlayers",
	SortNumberButtons: "numberButtons",
	SortCtrlType:      "ctrlType",
	SortJoyWays:       "joyWays",
	SortRating:        "rating",
	SortScore:         "score",
	SortLastPlayed:    "lastPlayed",
	SortPlayCount:     "playCount",
}

var sortFieldByLower = func() map[string]SortField {
	m := make(map[string]SortField, len(sortFieldNames))
	for f, name := range sortFieldNames {
		m[strings.ToLower(name)] = f
	}
	return m
}()

// ParseSortField matches name case-insensitively against the recognized fields.
func ParseSortField(name string) (SortField, bool) {
	f, ok := sortFieldByLower[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

func (f SortField) String() string {
	if name, ok := sortFieldNames[f]; ok {
		return name
	}
	return ""
}

// Descending reports whether the field orders newest / most played first.
func (f SortField) Descending() bool {
	return f == SortLastPlayed || f == SortPlayCount
}
