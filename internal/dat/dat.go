package dat

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Format names a DAT dialect.
type Format string

const (
	FormatMAME  Format = "mame"
	FormatFBNeo Format = "fbneo"
)

var ErrUnknownFormat = errors.New("unknown dat format")

// ParseFormat accepts "mame" and "fbneo", case insensitive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatMAME, FormatFBNeo:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Machine is one set of a MAME listxml / logiqx DAT or a FinalBurn Neo DAT.
type Machine struct {
	Name         string  `xml:"name,attr"`
	CloneOf      string  `xml:"cloneof,attr"`
	IsBios       string  `xml:"isbios,attr"`
	IsDevice     string  `xml:"isdevice,attr"`
	Runnable     string  `xml:"runnable,attr"`
	Description  string  `xml:"description"`
	Year         string  `xml:"year"`
	Manufacturer string  `xml:"manufacturer"`
	Input        *Input  `xml:"input"`
	Driver       *Driver `xml:"driver"`
}

// Input is the control panel description of a machine.
type Input struct {
	Players  string    `xml:"players,attr"`
	Buttons  string    `xml:"buttons,attr"`
	Controls []Control `xml:"control"`
}

type Control struct {
	Type    string `xml:"type,attr"`
	Buttons string `xml:"buttons,attr"`
	Ways    string `xml:"ways,attr"`
}

type Driver struct {
	Status string `xml:"status,attr"`
}

// Playable is false for BIOS sets, devices and non-runnable machines.
func (m *Machine) Playable() bool {
	return m.IsBios != "yes" && m.IsDevice != "yes" && m.Runnable != "no"
}

func (m *Machine) Players() string {
	if m.Input == nil {
		return ""
	}
	return m.Input.Players
}

// Buttons prefers the per-control count of newer listxml files.
func (m *Machine) Buttons() string {
	if m.Input == nil {
		return ""
	}
	for _, c := range m.Input.Controls {
		if c.Buttons != "" {
			return c.Buttons
		}
	}
	return m.Input.Buttons
}

func (m *Machine) ControlType() string {
	if m.Input == nil || len(m.Input.Controls) == 0 {
		return ""
	}
	return m.Input.Controls[0].Type
}

func (m *Machine) Ways() string {
	if m.Input == nil {
		return ""
	}
	for _, c := range m.Input.Controls {
		if c.Ways != "" {
			return c.Ways
		}
	}
	return ""
}

// Parser streams the playable sets of a DAT file.
type Parser struct {
	format  Format
	entries map[string]bool
}

// NewParser builds a parser for format.
func NewParser(format Format) (*Parser, error) {
	p := &Parser{format: format}
	switch format {
	case FormatMAME:
		p.entries = map[string]bool{"machine": true, "game": true}
	case FormatFBNeo:
		p.entries = map[string]bool{"game": true}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return p, nil
}

// ParseFile opens path and calls fn for every playable set. It returns the
// number of sets passed to fn. Zip, 7z, rar and gzip packed dats are
// unpacked on the fly.
func (p *Parser) ParseFile(path string, fn func(*Machine) error) (int, error) {
	f, err := openSource(path)
	if err != nil {
		return 0, fmt.Errorf("open %s dat %s: %w", p.format, path, err)
	}
	defer f.Close()
	return p.Parse(f, fn)
}

// Parse decodes one set at a time so full MAME listxml files stay out of memory.
func (p *Parser) Parse(r io.Reader, fn func(*Machine) error) (int, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false // DTD is referenced; relax strict parsing.

	count := 0
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("decode %s dat: %w", p.format, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || !p.entries[start.Name.Local] {
			continue
		}
		var m Machine
		if err := decoder.DecodeElement(&m, &start); err != nil {
			return count, fmt.Errorf("decode %s dat entry: %w", p.format, err)
		}
		if m.Name == "" || !m.Playable() {
			continue
		}
		if err := fn(&m); err != nil {
			return count, err
		}
		count++
	}
}
