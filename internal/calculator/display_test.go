package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "270,895", FormatNumber(270895))
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "-1,500", FormatNumber(-1500))
	assert.Equal(t, "∞", FormatNumber(math.Inf(1)))
	assert.Equal(t, "-∞", FormatNumber(math.Inf(-1)))
	assert.Equal(t, "NaN", FormatNumber(math.NaN()))
}

func TestDisplayRows(t *testing.T) {
	in := DefaultOrchardInput()
	out := Orchard(in, testLocation())

	rows := out.Display(in)
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"apples", "oj", "lemOrPalmers", "explores", "stamina"}, ids)
	assert.Equal(t, "Arnold Palmers", rows[2].Label)
	assert.Equal(t, "35", rows[2].Text)
	assert.Equal(t, "270,895", rows[3].Text)
	assert.Equal(t, "181,500", rows[4].Text)

	in.MakePalmers = false
	rows = Orchard(in, testLocation()).Display(in)
	assert.Equal(t, "Lemonade", rows[2].Label)
	assert.Equal(t, "568", rows[2].Text)
}

func TestDirectory(t *testing.T) {
	dir := Directory()
	assert.Len(t, dir, 4)
	assert.Equal(t, "/orchardcalc/", dir[1].Href)
	for _, e := range dir {
		assert.Equal(t, byte('/'), e.Href[0])
	}
}
