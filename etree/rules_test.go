package etree_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/juxta"
	"github.com/fwojciec/juxta/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRules(t *testing.T) {
	t.Parallel()

	t.Run("reads namespace, exclusions and line breaks", func(t *testing.T) {
		t.Parallel()

		rules, err := etree.LoadRules(strings.NewReader(`
<rules namespace="tei">
  <exclude tag="tei:teiHeader"/>
  <exclude tag="tei:fw" occurrences="2 4"/>
  <linebreak tag="tei:p"/>
</rules>`))
		require.NoError(t, err)

		assert.Equal(t, &juxta.RuleSet{
			Namespace: "tei",
			Excludes: []juxta.TagRule{
				{Tag: "tei:teiHeader"},
				{Tag: "tei:fw", Occurrences: []int{2, 4}},
			},
			LineBreaks: []juxta.TagRule{{Tag: "tei:p"}},
		}, rules)
	})

	t.Run("rejects other documents", func(t *testing.T) {
		t.Parallel()

		_, err := etree.LoadRules(strings.NewReader(`<TEI/>`))

		assert.Equal(t, juxta.EINVALID, juxta.ErrorCode(err))
	})

	t.Run("rejects non-numeric occurrence", func(t *testing.T) {
		t.Parallel()

		_, err := etree.LoadRules(strings.NewReader(`<rules><exclude tag="fw" occurrences="two"/></rules>`))

		assert.Equal(t, juxta.EINVALID, juxta.ErrorCode(err))
	})

	t.Run("rejects rule without tag", func(t *testing.T) {
		t.Parallel()

		_, err := etree.LoadRules(strings.NewReader(`<rules><linebreak/></rules>`))

		assert.Equal(t, juxta.EINVALID, juxta.ErrorCode(err))
	})
}
