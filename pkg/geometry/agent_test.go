package geometry_test

import (
	"context"
	"io"
	"testing"

	"github.com/aretw0/eio/internal/testutils"
	"github.com/aretw0/eio/pkg/adapters/file"
	"github.com/aretw0/eio/pkg/adapters/memory"
	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/geometry"
	"github.com/aretw0/eio/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squareSnapshot is a unit square with one body, one loop and four edges.
func squareSnapshot() *geometry.Snapshot {
	return &geometry.Snapshot{
		Descriptor: domain.GeometryDescriptor{
			Bodies: 1, Boundaries: 4, Outer: 4, Inner: 0, Vertices: 4, Loops: 2, MaxLoop: 4,
		},
		Nodes: []domain.Node{
			{Tag: 1, Coord: [3]float64{0, 0, 0}},
			{Tag: 2, Coord: [3]float64{1, 0, 0}},
			{Tag: 3, Coord: [3]float64{1, 1, 0}},
			{Tag: 4, CoordSys: 2, Coord: [3]float64{0, 1.0 / 3.0, -2.5e-7}},
		},
		Elements: []domain.Element{
			{Tag: 1, Type: 101, NodeCount: 2, NodeTags: []int{1, 2}},
			{Tag: 2, Type: 101, NodeCount: 2, NodeTags: []int{2, 3}},
			{Tag: 3, MeshControl: 5, Type: 202, NodeCount: 3, NodeTags: []int{3, 7, 4}},
			{Tag: 4, CoordSys: 1, Type: 101, NodeCount: 2, NodeTags: []int{4, 1}},
		},
		Bodies: []domain.Body{
			{Tag: 1, MeshControl: 3, Loops: []int{1, -2}},
		},
		Loops: []domain.Loop{
			{Tag: 1, Nodes: []int{1, 2, 3, 4}},
			{Tag: 2, Nodes: []int{4, 3}},
		},
		Boundaries: []domain.Boundary{
			{Tag: 1, Left: 1, Right: 0},
			{Tag: 2, Left: 1, Right: 0},
			{Tag: 3, Left: 1, Right: 2},
			{Tag: 4, Left: 0, Right: 1},
		},
	}
}

func newAgent(t *testing.T, store *memory.Store, model string, opts ...geometry.Option) *geometry.Agent {
	t.Helper()
	mgr, err := store.Manager(context.Background(), model)
	require.NoError(t, err)
	return geometry.New(mgr, opts...)
}

func readArtifact(t *testing.T, store *memory.Store, model string, kind domain.StreamKind) string {
	t.Helper()
	ctx := context.Background()
	mgr, err := store.Manager(ctx, model)
	require.NoError(t, err)
	s, err := mgr.OpenStream(ctx, kind, domain.ModeRead)
	require.NoError(t, err)
	defer s.Close()
	data, err := io.ReadAll(s)
	require.NoError(t, err)
	return string(data)
}

func TestDescriptor_RoundTrip(t *testing.T) {
	ctx := context.Background()
	tuples := []domain.GeometryDescriptor{
		{},
		{Bodies: 1, Boundaries: 2, Outer: 3, Inner: 4, Vertices: 5, Loops: 6, MaxLoop: 7},
		{Bodies: 1000000, Boundaries: 0, Outer: 0, Inner: 12, Vertices: 99999, Loops: 1, MaxLoop: 2147483647},
	}

	for _, d := range tuples {
		store := memory.NewStore()
		w := newAgent(t, store, "m")
		require.NoError(t, w.Create(ctx))
		require.NoError(t, w.SetDescriptor(ctx, d))
		assert.Equal(t, d, w.Descriptor())
		require.NoError(t, w.Close())

		r := newAgent(t, store, "m")
		require.NoError(t, r.Open(ctx))
		assert.Equal(t, d, r.Descriptor())
		require.NoError(t, r.Close())
	}
}

func TestHeader_Layout(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a := newAgent(t, store, "m")

	require.NoError(t, a.Create(ctx))
	require.NoError(t, a.SetDescriptor(ctx, domain.GeometryDescriptor{Bodies: 9}))
	require.NoError(t, a.SetDescriptor(ctx, domain.GeometryDescriptor{
		Bodies: 1, Boundaries: 2, Outer: 3, Inner: 4, Vertices: 5, Loops: 6, MaxLoop: 7,
	}))
	require.NoError(t, a.Close())

	assert.Equal(t, "1 2 3 4 5 6 7 \n", readArtifact(t, store, "m", domain.KindGeometryHeader),
		"header is overwritten in full, never appended")
}

func TestRecords_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	want := squareSnapshot()

	require.NoError(t, newAgent(t, store, "square").Save(ctx, want))

	a := newAgent(t, store, "square")
	require.NoError(t, a.Open(ctx))
	defer a.Close()

	for i, n := range want.Nodes {
		got, err := a.NextNode()
		require.NoError(t, err, "node %d", i)
		assert.Equal(t, n, got)
	}
	_, err := a.NextNode()
	assert.ErrorIs(t, err, domain.ErrEndOfSequence)

	for i, e := range want.Elements {
		got, err := a.NextElement(make([]int, 0, 4))
		require.NoError(t, err, "element %d", i)
		assert.Equal(t, e, got)
	}
	_, err = a.NextElement(nil)
	assert.ErrorIs(t, err, domain.ErrEndOfSequence)

	for _, b := range want.Bodies {
		got, err := a.NextBody(nil)
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
	_, err = a.NextBody(nil)
	assert.ErrorIs(t, err, domain.ErrEndOfSequence)

	for _, l := range want.Loops {
		got, err := a.NextLoop(nil)
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
	_, err = a.NextLoop(nil)
	assert.ErrorIs(t, err, domain.ErrEndOfSequence)

	for _, b := range want.Boundaries {
		got, err := a.NextBoundary()
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
	_, err = a.NextBoundary()
	assert.ErrorIs(t, err, domain.ErrEndOfSequence)
}

func TestSnapshot_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	want := squareSnapshot()

	require.NoError(t, newAgent(t, store, "square").Save(ctx, want))

	got, err := newAgent(t, store, "square").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestElement_Edge2CountNotPersisted(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a := newAgent(t, store, "m")

	require.NoError(t, a.Create(ctx))
	require.NoError(t, a.SetDescriptor(ctx, domain.GeometryDescriptor{Boundaries: 2}))
	require.NoError(t, a.WriteElement(domain.Element{Tag: 1, Type: 101, NodeTags: []int{5, 6}}))
	require.NoError(t, a.WriteElement(domain.Element{Tag: 2, Type: 202, NodeTags: []int{7, 8, 9}}))
	require.NoError(t, a.Close())

	assert.Equal(t, "1 0 0 101 5 6 \n2 0 0 202 3 7 8 9 \n",
		readArtifact(t, store, "m", domain.KindGeometryElements))

	require.NoError(t, a.Open(ctx))
	defer a.Close()

	edge, err := a.NextElement([]int{})
	require.NoError(t, err)
	assert.Equal(t, 2, edge.NodeCount)
	assert.Equal(t, []int{5, 6}, edge.NodeTags)

	multi, err := a.NextElement([]int{})
	require.NoError(t, err)
	assert.Equal(t, 3, multi.NodeCount)
	assert.Equal(t, []int{7, 8, 9}, multi.NodeTags)
}

func TestElement_InvalidNodeCount(t *testing.T) {
	ctx := context.Background()
	a := newAgent(t, memory.NewStore(), "m")
	require.NoError(t, a.Create(ctx))
	defer a.Close()
	require.NoError(t, a.SetDescriptor(ctx, domain.GeometryDescriptor{Boundaries: 1}))

	err := a.WriteElement(domain.Element{Tag: 1, Type: 101, NodeTags: []int{1, 2, 3}})
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)

	err = a.WriteElement(domain.Element{Tag: 2, Type: 202, NodeCount: 4, NodeTags: []int{1, 2, 3}})
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
}

func TestElement_ProbeModeKeepsCursorAligned(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, newAgent(t, store, "square").Save(ctx, squareSnapshot()))

	probe := newAgent(t, store, "square")
	full := newAgent(t, store, "square")
	require.NoError(t, probe.Open(ctx))
	defer probe.Close()
	require.NoError(t, full.Open(ctx))
	defer full.Close()

	for {
		p, perr := probe.NextElement(nil)
		f, ferr := full.NextElement(make([]int, 0, 4))
		require.Equal(t, ferr, perr)
		if perr != nil {
			assert.ErrorIs(t, perr, domain.ErrEndOfSequence)
			break
		}
		assert.Nil(t, p.NodeTags, "probe mode returns no tags")
		assert.Equal(t, f.NodeCount, p.NodeCount)
		assert.Equal(t, f.Tag, p.Tag)
		assert.Equal(t, f.Type, p.Type)
	}
}

func TestLoop_WrapsAndRewinds(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	want := squareSnapshot()
	require.NoError(t, newAgent(t, store, "square").Save(ctx, want))

	a := newAgent(t, store, "square")
	require.NoError(t, a.Open(ctx))
	defer a.Close()

	for pass := 0; pass < 3; pass++ {
		for _, l := range want.Loops {
			got, err := a.NextLoop(nil)
			require.NoError(t, err, "pass %d", pass)
			assert.Equal(t, l, got)
		}
		_, err := a.NextLoop(nil)
		require.ErrorIs(t, err, domain.ErrEndOfSequence, "pass %d", pass)
	}
}

func TestCursors_AreIndependent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	want := squareSnapshot()
	require.NoError(t, newAgent(t, store, "square").Save(ctx, want))

	a := newAgent(t, store, "square")
	require.NoError(t, a.Open(ctx))
	defer a.Close()

	// interleave element and boundary reads
	for i := range want.Elements {
		e, err := a.NextElement([]int{})
		require.NoError(t, err)
		assert.Equal(t, want.Elements[i].Tag, e.Tag)

		b, err := a.NextBoundary()
		require.NoError(t, err)
		assert.Equal(t, want.Boundaries[i], b)
	}
	_, err := a.NextElement(nil)
	assert.ErrorIs(t, err, domain.ErrEndOfSequence)
	_, err = a.NextBoundary()
	assert.ErrorIs(t, err, domain.ErrEndOfSequence)
}

func TestCursors_BoundaryBoundIsOuterPlusInner(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a := newAgent(t, store, "m")

	require.NoError(t, a.Create(ctx))
	require.NoError(t, a.SetDescriptor(ctx, domain.GeometryDescriptor{Boundaries: 5, Outer: 1, Inner: 1}))
	for tag := 1; tag <= 3; tag++ {
		require.NoError(t, a.WriteBoundary(domain.Boundary{Tag: tag, Left: 1}))
	}
	require.NoError(t, a.Close())

	require.NoError(t, a.Open(ctx))
	defer a.Close()
	for i := 0; i < 2; i++ {
		_, err := a.NextBoundary()
		require.NoError(t, err)
	}
	_, err := a.NextBoundary()
	assert.ErrorIs(t, err, domain.ErrEndOfSequence)
}

func TestAgents_DoNotShareCursors(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	want := squareSnapshot()
	require.NoError(t, newAgent(t, store, "a").Save(ctx, want))
	require.NoError(t, newAgent(t, store, "b").Save(ctx, want))

	first := newAgent(t, store, "a")
	second := newAgent(t, store, "b")
	require.NoError(t, first.Open(ctx))
	defer first.Close()
	require.NoError(t, second.Open(ctx))
	defer second.Close()

	for i, n := range want.Nodes {
		got, err := first.NextNode()
		require.NoError(t, err)
		assert.Equal(t, n, got)

		if i%2 == 0 {
			got, err = second.NextNode()
			require.NoError(t, err)
			assert.Equal(t, want.Nodes[i/2], got)
		}
	}
	_, err := first.NextNode()
	assert.ErrorIs(t, err, domain.ErrEndOfSequence)

	got, err := second.NextNode()
	require.NoError(t, err)
	assert.Equal(t, want.Nodes[2], got)
}

// geometryArtifacts returns every geometry stream empty, overridden by the
// given hand-written texts.
func geometryArtifacts(texts map[domain.StreamKind]string) map[domain.StreamKind]string {
	artifacts := map[domain.StreamKind]string{}
	for _, kind := range domain.GeometryKinds() {
		artifacts[kind] = ""
	}
	for kind, text := range texts {
		artifacts[kind] = text
	}
	return artifacts
}

func fileAgent(t *testing.T, store *file.Store, model string) *geometry.Agent {
	t.Helper()
	mgr, err := store.Manager(context.Background(), model)
	require.NoError(t, err)
	return geometry.New(mgr)
}

func TestOpen_MalformedHeader(t *testing.T) {
	ctx := context.Background()
	_, store := testutils.SetupTestRepo(t, map[string]map[domain.StreamKind]string{
		"short": geometryArtifacts(map[domain.StreamKind]string{domain.KindGeometryHeader: "1 2 3\n"}),
		"bad":   geometryArtifacts(map[domain.StreamKind]string{domain.KindGeometryHeader: "1 2 x 4 5 6 7\n"}),
	})

	a := fileAgent(t, store, "short")
	err := a.Open(ctx)
	var pe *domain.ParseError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, domain.ErrShortRecord)
	assert.Equal(t, "inner", pe.Field)
	assert.False(t, a.IsOpen())

	a = fileAgent(t, store, "bad")
	err = a.Open(ctx)
	require.ErrorAs(t, err, &pe)
	assert.NotErrorIs(t, err, domain.ErrShortRecord)
	assert.Equal(t, "x", pe.Token)
}

func TestLoad_OversizedCountIsShortRecord(t *testing.T) {
	ctx := context.Background()
	_, store := testutils.SetupTestRepo(t, map[string]map[domain.StreamKind]string{
		"bodies": geometryArtifacts(map[domain.StreamKind]string{
			domain.KindGeometryHeader: "1 0 0 0 0 0 0\n",
			domain.KindGeometryBodies: "1 0 9223372036854775807\n1\n",
		}),
		"loops": geometryArtifacts(map[domain.StreamKind]string{
			domain.KindGeometryHeader: "0 0 0 0 0 1 1\n",
			domain.KindGeometryLoops:  "1 9223372036854775807 1\n",
		}),
	})

	tests := []struct {
		model string
		field string
	}{
		{model: "bodies", field: "loop"},
		{model: "loops", field: "node"},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			var snap *geometry.Snapshot
			var err error
			require.NotPanics(t, func() {
				snap, err = fileAgent(t, store, tt.model).Load(ctx)
			})
			assert.Nil(t, snap)
			var pe *domain.ParseError
			require.ErrorAs(t, err, &pe)
			assert.ErrorIs(t, err, domain.ErrShortRecord)
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestOpen_MissingArtifact(t *testing.T) {
	store := memory.NewStoreFrom(map[string]map[domain.StreamKind]string{
		"partial": {domain.KindGeometryHeader: "0 0 0 0 0 0 0\n"},
	})
	a := newAgent(t, store, "partial")

	err := a.Open(context.Background())
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	assert.False(t, a.IsOpen())
}

func TestRead_TruncatedRecordIsNotEndOfSequence(t *testing.T) {
	ctx := context.Background()
	_, store := testutils.SetupTestRepo(t, map[string]map[domain.StreamKind]string{
		"cut": geometryArtifacts(map[domain.StreamKind]string{
			domain.KindGeometryHeader: "0 0 0 0 2 0 0\n",
			domain.KindGeometryNodes:  "1 0 0 0 0 \n2 0 1.5",
		}),
	})
	mgr, err := store.Manager(ctx, "cut")
	require.NoError(t, err)
	metrics := observability.NewMetrics(nil)
	a := geometry.New(mgr, geometry.WithMetrics(metrics))
	require.NoError(t, a.Open(ctx))
	defer a.Close()

	_, err = a.NextNode()
	require.NoError(t, err)

	_, err = a.NextNode()
	assert.ErrorIs(t, err, domain.ErrShortRecord)
	assert.NotErrorIs(t, err, domain.ErrEndOfSequence)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Failures.WithLabelValues("geometry.nodes", "short_record")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Records.WithLabelValues("geometry.nodes", "read")))
}

func TestLifecycle_Errors(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a := newAgent(t, store, "m")

	_, err := a.NextNode()
	assert.ErrorIs(t, err, domain.ErrNotOpen)
	assert.ErrorIs(t, a.WriteNode(domain.Node{}), domain.ErrNotOpen)
	assert.ErrorIs(t, a.Close(), domain.ErrClosed)

	require.NoError(t, a.Create(ctx))
	assert.ErrorIs(t, a.Create(ctx), domain.ErrAlreadyOpen)
	assert.ErrorIs(t, a.WriteNode(domain.Node{Tag: 1}), domain.ErrDescriptorMissing)

	_, err = a.NextNode()
	assert.ErrorIs(t, err, domain.ErrWrongMode)

	require.NoError(t, a.SetDescriptor(ctx, domain.GeometryDescriptor{Vertices: 1}))
	require.NoError(t, a.WriteNode(domain.Node{Tag: 1}))
	require.NoError(t, a.Close())
	assert.ErrorIs(t, a.Close(), domain.ErrClosed, "double close is reported")

	require.NoError(t, a.Open(ctx))
	assert.ErrorIs(t, a.WriteNode(domain.Node{Tag: 2}), domain.ErrWrongMode)
	assert.ErrorIs(t, a.SetDescriptor(ctx, domain.GeometryDescriptor{}), domain.ErrWrongMode)
	assert.Equal(t, 1, a.Descriptor().Vertices, "rejected SetDescriptor leaves the descriptor alone")
	require.NoError(t, a.Close())
}

func TestMetrics_CountRecordsAndWraps(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	metrics := observability.NewMetrics(nil)
	require.NoError(t, newAgent(t, store, "square", geometry.WithMetrics(metrics)).Save(ctx, squareSnapshot()))

	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.Records.WithLabelValues("geometry.nodes", "write")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Records.WithLabelValues("geometry.header", "write")))

	_, err := newAgent(t, store, "square", geometry.WithMetrics(metrics)).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Records.WithLabelValues("geometry.loops", "read")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EndOfSequence.WithLabelValues("geometry.loops")))
}
