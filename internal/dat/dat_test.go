package dat

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMameDat = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE mame [
<!ELEMENT mame (machine+)>
]>
<mame build="0.282">
  <machine name="neogeo" isbios="yes">
    <description>Neo-Geo MV-6</description>
  </machine>
  <machine name="z80" isdevice="yes" runnable="no">
    <description>Zilog Z80</description>
  </machine>
  <machine name="pacman" sourcefile="pacman/pacman.cpp">
    <description>Pac-Man (Midway)</description>
    <year>1980</year>
    <manufacturer>Namco (Midway license)</manufacturer>
    <input players="2" coins="2">
      <control type="joy" player="1" ways="4"/>
    </input>
    <driver status="good"/>
  </machine>
  <machine name="puckman" cloneof="pacman" romof="pacman">
    <description>Puck Man (Japan set 1)</description>
    <year>1980</year>
    <manufacturer>Namco</manufacturer>
    <input players="2" buttons="1">
      <control type="joy" player="1" buttons="2" ways="4"/>
    </input>
  </machine>
</mame>`

const sampleFBNeoDat = `<?xml version="1.0"?>
<!DOCTYPE datafile PUBLIC "-//FinalBurn Neo//DTD ROM Management Datafile//EN" "http://www.logiqx.com/Dats/datafile.dtd">
<datafile>
	<header>
		<name>FinalBurn Neo - Arcade Games</name>
		<version>1.0.0.03</version>
	</header>
	<game isbios="yes" name="neogeo">
		<description>Neo Geo</description>
	</game>
	<game name="mslug" romof="neogeo">
		<description>Metal Slug - Super Vehicle-001</description>
		<year>1996</year>
		<manufacturer>Nazca</manufacturer>
		<driver status="good"/>
	</game>
</datafile>`

func collect(t *testing.T, format Format, src string) []*Machine {
	t.Helper()
	p, err := NewParser(format)
	require.NoError(t, err)
	var out []*Machine
	n, err := p.Parse(strings.NewReader(src), func(m *Machine) error {
		out = append(out, m)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, len(out), n)
	return out
}

func TestParseMameSkipsBiosAndDevices(t *testing.T) {
	ms := collect(t, FormatMAME, sampleMameDat)
	require.Len(t, ms, 2)

	pac := ms[0]
	assert.Equal(t, "pacman", pac.Name)
	assert.Equal(t, "Pac-Man (Midway)", pac.Description)
	assert.Equal(t, "1980", pac.Year)
	assert.Equal(t, "2", pac.Players())
	assert.Equal(t, "joy", pac.ControlType())
	assert.Equal(t, "4", pac.Ways())
	assert.Equal(t, "", pac.Buttons())
	require.NotNil(t, pac.Driver)
	assert.Equal(t, "good", pac.Driver.Status)

	puck := ms[1]
	assert.Equal(t, "pacman", puck.CloneOf)
	assert.Equal(t, "2", puck.Buttons())
}

func TestParseFBNeo(t *testing.T) {
	ms := collect(t, FormatFBNeo, sampleFBNeoDat)
	require.Len(t, ms, 1)
	assert.Equal(t, "mslug", ms[0].Name)
	assert.Equal(t, "Nazca", ms[0].Manufacturer)
	assert.Equal(t, "", ms[0].Players())
}

func TestFBNeoIgnoresMachineElements(t *testing.T) {
	assert.Empty(t, collect(t, FormatFBNeo, sampleMameDat))
}

func TestParseStopsOnCallbackError(t *testing.T) {
	p, err := NewParser(FormatMAME)
	require.NoError(t, err)
	stop := errors.New("stop")
	n, err := p.Parse(strings.NewReader(sampleMameDat), func(*Machine) error { return stop })
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 0, n)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fbneo.dat")
	require.NoError(t, os.WriteFile(path, []byte(sampleFBNeoDat), 0o644))
	p, err := NewParser(FormatFBNeo)
	require.NoError(t, err)
	n, err := p.ParseFile(path, func(*Machine) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = p.ParseFile(filepath.Join(t.TempDir(), "missing.dat"), func(*Machine) error { return nil })
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" MAME ")
	require.NoError(t, err)
	assert.Equal(t, FormatMAME, f)
	_, err = ParseFormat("nointro")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = NewParser(Format("x"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
