package split

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/ingest/internal/content"
	"github.com/docforge/ingest/internal/doc"
	"github.com/docforge/ingest/internal/metadata"
)

func csvDoc(body string) *doc.Document {
	return doc.New("data.csv", content.FromBytes([]byte(body)))
}

func childBody(t *testing.T, d *doc.Document) string {
	t.Helper()
	rc, err := d.Content().Reader()
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestCSVSplitWithHeader(t *testing.T) {
	d := csvDoc("name,city\nalice,berlin\nbob,tokyo\n")
	defer d.Dispose()

	s := &CSV{UseHeader: true}
	children, err := s.Split(context.Background(), d, io.Discard)
	require.NoError(t, err)
	require.Len(t, children, 2)
	defer func() {
		for _, c := range children {
			c.Dispose()
		}
	}()

	first := children[0]
	assert.Equal(t, "data.csv!row-1", first.Reference)
	assert.Equal(t, "text/plain", first.ContentType)
	assert.Equal(t, "data.csv", first.ParentReference)
	assert.Equal(t, "alice", first.Meta.Get("name"))
	assert.Equal(t, "berlin", first.Meta.Get("city"))
	assert.Equal(t, "alice,berlin", childBody(t, first))

	assert.Equal(t, "data.csv!row-2", children[1].Reference)
	assert.Equal(t, "tokyo", children[1].Meta.Get("city"))
}

func TestCSVSplitWithoutHeader(t *testing.T) {
	d := csvDoc("a,b\nc,d\n")
	defer d.Dispose()

	s := &CSV{}
	children, err := s.Split(context.Background(), d, io.Discard)
	require.NoError(t, err)
	require.Len(t, children, 2, "every row is data without a header")
	for _, c := range children {
		assert.Equal(t, "data.csv", c.Meta.Get(metadata.KeyParentReference))
		c.Dispose()
	}
}

func TestCSVSplitCustomDelimiter(t *testing.T) {
	d := doc.New("data.tsv", content.FromBytes([]byte("x\ty\n1\t2\n")))
	defer d.Dispose()

	s := &CSV{Comma: '\t', UseHeader: true}
	children, err := s.Split(context.Background(), d, io.Discard)
	require.NoError(t, err)
	require.Len(t, children, 1)
	defer children[0].Dispose()

	assert.Equal(t, "1\t2", childBody(t, children[0]))
	assert.Equal(t, "2", children[0].Meta.Get("y"))
}

func TestCSVSplitEmptyContentYieldsNoChildren(t *testing.T) {
	d := csvDoc("")
	defer d.Dispose()

	children, err := (&CSV{}).Split(context.Background(), d, io.Discard)
	require.NoError(t, err)
	assert.Empty(t, children)
}
