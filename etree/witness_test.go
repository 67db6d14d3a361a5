package etree_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/juxta"
	"github.com/fwojciec/juxta/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parallelSource = `<?xml version="1.0"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0">
  <teiHeader>
    <sourceDesc>
      <listWit xml:id="ms">
        <witness xml:id="A">Manuscript <hi>A</hi>,
          Bodleian</witness>
        <witness xml:id="B"/>
        <listWit>
          <witness xml:id="C">Print &amp; proof</witness>
        </listWit>
      </listWit>
      <listWit>
        <witness xml:id="D">Loose leaf &mdash; undated</witness>
        <witness xml:id="A">Duplicate</witness>
      </listWit>
    </sourceDesc>
  </teiHeader>
  <text><body><p>x</p></body></text>
</TEI>`

func TestWitnessParser_ParseWitnesses(t *testing.T) {
	t.Parallel()

	t.Run("lists witnesses with group and name", func(t *testing.T) {
		t.Parallel()

		infos, err := etree.NewWitnessParser().ParseWitnesses(strings.NewReader(parallelSource))
		require.NoError(t, err)

		byID := make(map[string]juxta.WitnessInfo)
		for _, info := range infos {
			byID[info.ID] = info
		}
		require.Len(t, byID, 4)
		assert.Len(t, infos, 4, "duplicate ids are reported once")

		assert.Equal(t, juxta.WitnessInfo{ID: "A", GroupID: "ms", Name: "Manuscript A, Bodleian"}, byID["A"])
		assert.Equal(t, juxta.WitnessInfo{ID: "B", GroupID: "ms", Name: "B"}, byID["B"])
		assert.Equal(t, "ms", byID["C"].GroupID)
		assert.Equal(t, "Print & proof", byID["C"].Name)
		assert.Equal(t, "D", byID["D"].GroupID)
	})

	t.Run("returns EINVALID without witnesses", func(t *testing.T) {
		t.Parallel()

		_, err := etree.NewWitnessParser().ParseWitnesses(strings.NewReader(`<TEI><text/></TEI>`))

		assert.Equal(t, juxta.EINVALID, juxta.ErrorCode(err))
	})

	t.Run("returns EINVALID for malformed XML", func(t *testing.T) {
		t.Parallel()

		_, err := etree.NewWitnessParser().ParseWitnesses(strings.NewReader(`<TEI><listWit`))

		assert.Equal(t, juxta.EINVALID, juxta.ErrorCode(err))
	})

	t.Run("decodes declared Latin-1", func(t *testing.T) {
		t.Parallel()

		src := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><TEI><listWit><witness xml:id=\"A\">Caf\xe9 copy</witness></listWit></TEI>"

		infos, err := etree.NewWitnessParser().ParseWitnesses(strings.NewReader(src))

		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, "Café copy", infos[0].Name)
	})
}
