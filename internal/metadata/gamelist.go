package metadata

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type gamelistDocument struct {
	Games []gamelistEntry `xml:"game"`
}

type gamelistEntry struct {
	Path        string   `xml:"path"`
	Name        string   `xml:"name"`
	Description string   `xml:"desc"`
	Developer   string   `xml:"developer"`
	Publisher   string   `xml:"publisher"`
	Genres      []string `xml:"genre"`
	ReleaseDate string   `xml:"releasedate"`
	Rating      string   `xml:"rating"`
	Players     string   `xml:"players"`
	Hidden      bool     `xml:"hidden"`
}

// ReadGamelist parses an EmulationStation gamelist.xml. Hidden entries and
// entries without a path are skipped.
func ReadGamelist(path string) ([]Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gamelist %s: %w", path, err)
	}
	defer f.Close()

	var doc gamelistDocument
	if err := xml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode gamelist %s: %w", path, err)
	}

	games := make([]Game, 0, len(doc.Games))
	for _, e := range doc.Games {
		name := romName(e.Path)
		if name == "" || e.Hidden {
			continue
		}
		var genres []string
		for _, g := range e.Genres {
			if g = strings.TrimSpace(g); g != "" {
				genres = append(genres, g)
			}
		}
		games = append(games, Game{
			Name:        name,
			Title:       strings.TrimSpace(e.Name),
			Year:        releaseYear(e.ReleaseDate),
			Developer:   strings.TrimSpace(e.Developer),
			Publisher:   strings.TrimSpace(e.Publisher),
			Genre:       strings.Join(genres, ", "),
			Players:     strings.TrimSpace(e.Players),
			Rating:      normalizeRating(e.Rating),
			Description: strings.TrimSpace(e.Description),
		})
	}
	return games, nil
}

// gamelist ratings are 0..1 floats; they are stored as a 0..100 integer string.
func normalizeRating(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return ""
	}
	if v <= 1 {
		v *= 100
	}
	return strconv.Itoa(int(v + 0.5))
}
