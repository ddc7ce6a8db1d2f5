package lookup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/intern"
)

func TestTable_ResolvesEveryKey(t *testing.T) {
	sizes := []int{1, 2, 3, 7, 16, 64, 500, 3000}

	for _, n := range sizes {
		t.Run(fmt.Sprintf("%d keys", n), func(t *testing.T) {
			in := intern.New()
			b := NewBuilder(n)
			for i := 0; i < n; i++ {
				b.Add(in.Intern(fmt.Sprintf("element%d", i)))
			}
			tbl, err := b.Build()
			require.NoError(t, err)
			assert.Equal(t, n, tbl.Len())

			for i := 0; i < n; i++ {
				name := fmt.Sprintf("element%d", i)
				idx, ok := tbl.Index(name)
				require.True(t, ok, name)
				assert.Equal(t, i, idx)
				assert.Equal(t, name, tbl.Key(i).String())
			}
		})
	}
}

func TestTable_UnknownNamesMiss(t *testing.T) {
	tbl, err := New("id", "status", "subject", "code", "value", "effective")
	require.NoError(t, err)

	for i := 0; i < 10000; i++ {
		_, ok := tbl.Index(fmt.Sprintf("other%d", i))
		assert.False(t, ok)
	}
	_, ok := tbl.Index("")
	assert.False(t, ok)
	_, ok = tbl.Index("Status")
	assert.False(t, ok)
}

func TestTable_IndexOfUsesIdentity(t *testing.T) {
	shared := intern.New()
	other := intern.New()

	b := NewBuilder(2)
	b.Add(shared.Intern("name")).Add(shared.Intern("gender"))
	tbl, err := b.Build()
	require.NoError(t, err)

	idx, ok := tbl.IndexOf(shared.Intern("gender"))
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	// Same text from a different interner is a different handle.
	_, ok = tbl.IndexOf(other.Intern("gender"))
	assert.False(t, ok)

	_, ok = tbl.IndexOf(intern.Handle{})
	assert.False(t, ok)
}

func TestBuilder_RejectsDuplicates(t *testing.T) {
	_, err := New("a", "b", "a")
	require.Error(t, err)

	var ce *perrors.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, `"a"`)
}

func TestBuilder_RejectsInvalidHandle(t *testing.T) {
	_, err := NewBuilder(1).Add(intern.Handle{}).Build()
	var ce *perrors.ConstraintError
	assert.ErrorAs(t, err, &ce)
}

func TestTable_Empty(t *testing.T) {
	tbl, err := New()
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	_, ok := tbl.Index("anything")
	assert.False(t, ok)
	assert.Empty(t, tbl.Keys())

	var nilTable *Table
	assert.Equal(t, 0, nilTable.Len())
	_, ok = nilTable.Index("x")
	assert.False(t, ok)
}

func TestTable_KeysIsACopy(t *testing.T) {
	tbl, err := New("x", "y")
	require.NoError(t, err)

	keys := tbl.Keys()
	keys[0] = intern.String("z")
	idx, ok := tbl.Index("x")
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestTable_SimilarNames(t *testing.T) {
	// Names differing in one character or by prefix.
	names := []string{"value", "valueString", "valueQuantity", "valueBoolean", "valu", "values", "Value", "vAlue"}
	tbl, err := New(names...)
	require.NoError(t, err)
	for i, n := range names {
		idx, ok := tbl.Index(n)
		require.True(t, ok, n)
		assert.Equal(t, i, idx)
	}
	_, ok := tbl.Index("valueInteger")
	assert.False(t, ok)
}
