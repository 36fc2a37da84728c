package importer

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/ingest/internal/content"
	"github.com/docforge/ingest/internal/doc"
	"github.com/docforge/ingest/internal/handler"
	"github.com/docforge/ingest/internal/metadata"
	"github.com/docforge/ingest/pkg/logger"
)

// trace records handler invocation order across a chain run.
type trace struct {
	calls []string
}

type traceTagger struct {
	name string
	tr   *trace
}

func (t *traceTagger) Tag(_ context.Context, _ string, _ io.Reader, _ *metadata.Metadata, _ bool) error {
	t.tr.calls = append(t.tr.calls, t.name)
	return nil
}

type traceFilter struct {
	name   string
	mode   handler.OnMatch
	accept bool
	tr     *trace
}

func (f *traceFilter) Accept(_ context.Context, _ string, _ io.Reader, _ *metadata.Metadata, _ bool) (bool, error) {
	f.tr.calls = append(f.tr.calls, f.name)
	return f.accept, nil
}

func (f *traceFilter) OnMatch() handler.OnMatch { return f.mode }
func (f *traceFilter) String() string           { return f.name }

type notAHandler struct{}

func newTestImporter(t *testing.T) *Importer {
	t.Helper()
	return New(Config{TempDir: t.TempDir()}, logger.NewTestLogger())
}

func newTestDoc(body string) *doc.Document {
	return doc.New("test-ref", content.FromBytes([]byte(body)))
}

func TestChainNoFiltersAlwaysPasses(t *testing.T) {
	im := newTestImporter(t)
	tr := &trace{}
	d := newTestDoc("body")
	defer d.Dispose()

	chain := []handler.Binding{
		handler.Bind(&traceTagger{name: "t1", tr: tr}),
		handler.Bind(&traceTagger{name: "t2", tr: tr}),
	}
	status, children, err := im.executeHandlers(context.Background(), d, chain, false)
	require.NoError(t, err)
	assert.True(t, status.Passed())
	assert.Empty(t, children)
	assert.Equal(t, []string{"t1", "t2"}, tr.calls)
}

func TestChainExcludeFilterShortCircuits(t *testing.T) {
	im := newTestImporter(t)
	tr := &trace{}
	d := newTestDoc("body")
	defer d.Dispose()

	chain := []handler.Binding{
		handler.Bind(&traceFilter{name: "keep", mode: handler.OnMatchExclude, accept: true, tr: tr}),
		handler.Bind(&traceFilter{name: "drop", mode: handler.OnMatchExclude, accept: false, tr: tr}),
		handler.Bind(&traceTagger{name: "after", tr: tr}),
	}
	status, _, err := im.executeHandlers(context.Background(), d, chain, false)
	require.NoError(t, err)
	assert.True(t, status.Rejected())
	assert.Contains(t, status.Description, "drop", "the rejecting filter is named")
	assert.Equal(t, []string{"keep", "drop"}, tr.calls, "nothing runs after the rejecting filter")
}

func TestChainIncludeNoneMatchedRejectsAtEnd(t *testing.T) {
	im := newTestImporter(t)
	tr := &trace{}
	d := newTestDoc("body")
	defer d.Dispose()

	chain := []handler.Binding{
		handler.Bind(&traceFilter{name: "inc1", mode: handler.OnMatchInclude, accept: false, tr: tr}),
		handler.Bind(&traceFilter{name: "inc2", mode: handler.OnMatchInclude, accept: false, tr: tr}),
		handler.Bind(&traceTagger{name: "tail", tr: tr}),
	}
	status, _, err := im.executeHandlers(context.Background(), d, chain, false)
	require.NoError(t, err)
	assert.True(t, status.Rejected())
	assert.Equal(t, "no include filters matched", status.Description)
	assert.Equal(t, []string{"inc1", "inc2", "tail"}, tr.calls,
		"include resolution happens after the whole chain ran")
}

func TestChainIncludeOneMatchSuffices(t *testing.T) {
	im := newTestImporter(t)
	tr := &trace{}
	d := newTestDoc("body")
	defer d.Dispose()

	// First include matches, second does not: chain passes.
	chain := []handler.Binding{
		handler.Bind(&traceFilter{name: "inc1", mode: handler.OnMatchInclude, accept: true, tr: tr}),
		handler.Bind(&traceFilter{name: "inc2", mode: handler.OnMatchInclude, accept: false, tr: tr}),
	}
	status, _, err := im.executeHandlers(context.Background(), d, chain, false)
	require.NoError(t, err)
	assert.True(t, status.Passed())
}

func TestChainUnsupportedHandlerSkipped(t *testing.T) {
	log := logger.NewTestLogger()
	im := New(Config{TempDir: t.TempDir()}, log)
	tr := &trace{}
	d := newTestDoc("body")
	defer d.Dispose()

	chain := []handler.Binding{
		handler.Bind(&notAHandler{}),
		handler.Bind(&traceTagger{name: "after", tr: tr}),
	}
	status, _, err := im.executeHandlers(context.Background(), d, chain, false)
	require.NoError(t, err)
	assert.True(t, status.Passed())
	assert.Equal(t, []string{"after"}, tr.calls)

	var warned bool
	for _, e := range log.GetEntries() {
		if e.Level == "WARN" {
			warned = true
		}
	}
	assert.True(t, warned, "unsupported handler is logged")
}

func TestChainRestrictionGuardsDispatch(t *testing.T) {
	im := newTestImporter(t)
	tr := &trace{}
	d := newTestDoc("body")
	defer d.Dispose()
	d.Meta.Set(metadata.KeyContentType, "text/plain")

	htmlOnly, err := handler.RestrictTo(&traceTagger{name: "html", tr: tr}, metadata.KeyContentType, `^text/html$`)
	require.NoError(t, err)
	textOnly, err := handler.RestrictTo(&traceTagger{name: "text", tr: tr}, metadata.KeyContentType, `^text/`)
	require.NoError(t, err)

	_, _, err = im.executeHandlers(context.Background(), d, []handler.Binding{htmlOnly, textOnly}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"text"}, tr.calls)
}

type rewriteTransformer struct {
	write string
}

func (tt *rewriteTransformer) Transform(_ context.Context, _ string, _ io.Reader, w io.Writer, _ *metadata.Metadata, _ bool) error {
	if tt.write != "" {
		_, err := io.WriteString(w, tt.write)
		return err
	}
	return nil
}

func TestChainTransformerReplacesContent(t *testing.T) {
	im := newTestImporter(t)
	d := newTestDoc("original")
	defer d.Dispose()

	chain := []handler.Binding{handler.Bind(&rewriteTransformer{write: "rewritten"})}
	_, _, err := im.executeHandlers(context.Background(), d, chain, false)
	require.NoError(t, err)
	assert.Equal(t, "rewritten", docBody(t, d))
}

func TestChainTransformerNoWriteKeepsContent(t *testing.T) {
	im := newTestImporter(t)
	d := newTestDoc("original")
	defer d.Dispose()

	chain := []handler.Binding{handler.Bind(&rewriteTransformer{})}
	_, _, err := im.executeHandlers(context.Background(), d, chain, false)
	require.NoError(t, err)
	assert.Equal(t, "original", docBody(t, d))
}

type staticSplitter struct {
	kids      []string
	writeBack string
	touch     bool
}

func (s *staticSplitter) Split(_ context.Context, d *doc.Document, w io.Writer) ([]*doc.Document, error) {
	// Children do not split again.
	if d.ParentReference != "" {
		return nil, nil
	}
	if s.touch {
		if _, err := io.WriteString(w, s.writeBack); err != nil {
			return nil, err
		}
	}
	var out []*doc.Document
	for _, body := range s.kids {
		child := doc.New(d.ChildReference(body), content.FromBytes([]byte(body)))
		child.ParentReference = d.Reference
		out = append(out, child)
	}
	return out, nil
}

func TestChainSplitterAccumulatesChildren(t *testing.T) {
	im := newTestImporter(t)
	d := newTestDoc("parent")
	defer d.Dispose()

	chain := []handler.Binding{handler.Bind(&staticSplitter{kids: []string{"a", "b"}})}
	status, children, err := im.executeHandlers(context.Background(), d, chain, false)
	require.NoError(t, err)
	assert.True(t, status.Passed())
	require.Len(t, children, 2)
	for _, c := range children {
		c.Dispose()
	}
	// No write: parent content untouched.
	assert.Equal(t, "parent", docBody(t, d))
}

func TestChainSplitterEmptyWriteReplacesParent(t *testing.T) {
	im := newTestImporter(t)
	d := newTestDoc("parent")
	defer d.Dispose()

	chain := []handler.Binding{handler.Bind(&staticSplitter{touch: true})}
	_, _, err := im.executeHandlers(context.Background(), d, chain, false)
	require.NoError(t, err)
	assert.Equal(t, "", docBody(t, d), "splitting is destructive even on an empty write")
}

type setTagger struct {
	field, value string
}

func (s *setTagger) Tag(_ context.Context, _ string, _ io.Reader, meta *metadata.Metadata, _ bool) error {
	meta.Set(s.field, s.value)
	return nil
}

func TestChainTaggerIdempotentOnUnmutatedContent(t *testing.T) {
	im := newTestImporter(t)
	d := newTestDoc("body")
	defer d.Dispose()

	chain := []handler.Binding{handler.Bind(&setTagger{field: "lang", value: "en"})}

	_, _, err := im.executeHandlers(context.Background(), d, chain, false)
	require.NoError(t, err)
	before := d.Meta.Clone()

	_, _, err = im.executeHandlers(context.Background(), d, chain, false)
	require.NoError(t, err)
	assert.Equal(t, before.String(), d.Meta.String(),
		"re-running a pure tagger chain mutates nothing new")
	assert.Equal(t, "body", docBody(t, d))
}

func docBody(t *testing.T, d *doc.Document) string {
	t.Helper()
	rc, err := d.Content().Reader()
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}
