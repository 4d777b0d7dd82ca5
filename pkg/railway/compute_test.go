package railway

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/railtrack/pkg/dag"
)

func rec(id string, ts int64, parents ...string) dag.Record {
	r := dag.Record{ID: dag.ID(id), Time: time.Unix(ts, 0)}
	for _, p := range parents {
		r.Parents = append(r.Parents, dag.ID(p))
	}
	return r
}

func layoutOf(t *testing.T, records []dag.Record) (*dag.Graph, *Layout) {
	t.Helper()
	g, _, err := dag.Build(records)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	order, err := dag.Sequence(g)
	if err != nil {
		t.Fatalf("Sequence() error: %v", err)
	}
	return g, Compute(g, order)
}

func randomRecords(seed uint64, n int) []dag.Record {
	rng := rand.New(rand.NewPCG(seed, seed*31+7))
	records := make([]dag.Record, n)
	for i := range n {
		records[i] = rec(fmt.Sprintf("c%05d", i), int64(i/2))
		if i == 0 || rng.IntN(12) == 0 {
			continue
		}
		// Mostly linear with occasional merges reaching far back.
		records[i].Parents = append(records[i].Parents, records[max(0, i-1-rng.IntN(4))].ID)
		if rng.IntN(5) == 0 {
			records[i].Parents = append(records[i].Parents, records[rng.IntN(i)].ID)
		}
	}
	rng.Shuffle(len(records), func(i, j int) { records[i], records[j] = records[j], records[i] })
	return records
}

func TestCompute_MergeScenario(t *testing.T) {
	_, l := layoutOf(t, []dag.Record{
		rec("A", 1),
		rec("B", 2, "A"),
		rec("C", 3, "A"),
		rec("D", 4, "B", "C"),
	})

	want := []Row{
		NodeRow{ID: "D", Lane: 0, Merge: true},
		EdgeRow{Segments: []Segment{
			{Kind: Straight, From: 0, To: 0},
			{Kind: DiagonalOut, From: 0, To: 1},
		}},
		NodeRow{ID: "C", Lane: 1, PassThrough: []int{0}},
		NodeRow{ID: "B", Lane: 0, PassThrough: []int{1}},
		EdgeRow{Segments: []Segment{
			{Kind: Straight, From: 0, To: 0},
			{Kind: DiagonalIn, From: 1, To: 0},
		}},
		NodeRow{ID: "A", Lane: 0},
	}
	if !reflect.DeepEqual(l.Rows, want) {
		t.Errorf("Rows =\n%#v\nwant\n%#v", l.Rows, want)
	}
	if l.Width != 2 {
		t.Errorf("Width = %d, want 2", l.Width)
	}
	if l.Truncated {
		t.Error("Truncated = true, want false")
	}
}

func TestCompute_MergeIntoAwaitedLane(t *testing.T) {
	_, l := layoutOf(t, []dag.Record{
		rec("A", 1),
		rec("B", 2, "A"),
		rec("F", 4, "A"),
		rec("M", 5, "B", "F"),
		rec("X", 6, "F"),
	})

	want := []Row{
		NodeRow{ID: "X", Lane: 0},
		EdgeRow{Segments: []Segment{{Kind: Straight, From: 0, To: 0}}},
		NodeRow{ID: "M", Lane: 1, PassThrough: []int{0}, Merge: true},
		EdgeRow{Segments: []Segment{
			{Kind: Straight, From: 0, To: 0},
			{Kind: DiagonalIn, From: 1, To: 0},
			{Kind: Straight, From: 1, To: 1},
		}},
		NodeRow{ID: "F", Lane: 0, PassThrough: []int{1}},
		NodeRow{ID: "B", Lane: 1, PassThrough: []int{0}},
		EdgeRow{Segments: []Segment{
			{Kind: Straight, From: 0, To: 0},
			{Kind: DiagonalIn, From: 1, To: 0},
		}},
		NodeRow{ID: "A", Lane: 0},
	}
	if !reflect.DeepEqual(l.Rows, want) {
		t.Errorf("Rows =\n%#v\nwant\n%#v", l.Rows, want)
	}
}

func TestCompute_LaneReuse(t *testing.T) {
	_, l := layoutOf(t, []dag.Record{
		rec("m1", 1),
		rec("m2", 5, "m1"),
		rec("m3", 10, "m2"),
		rec("s1", 9, "m2"),
		rec("s2", 8, "m2"),
		rec("t", 4, "m1"),
		rec("w", 3, "m1"),
	})

	lanes := map[dag.ID]int{}
	for _, n := range l.Nodes() {
		lanes[n.ID] = n.Lane
	}
	want := map[dag.ID]int{"m3": 0, "s1": 1, "s2": 2, "m2": 0, "t": 1, "w": 2, "m1": 0}
	if !reflect.DeepEqual(lanes, want) {
		t.Errorf("lanes = %v, want %v", lanes, want)
	}
	if l.Width != 3 {
		t.Errorf("Width = %d, want 3", l.Width)
	}
}

func TestCompute_LinearHistoryNeedsNoEdgeRows(t *testing.T) {
	records := make([]dag.Record, 100)
	for i := range records {
		records[i] = rec(fmt.Sprintf("%03d", i), int64(i))
		if i > 0 {
			records[i].Parents = []dag.ID{records[i-1].ID}
		}
	}
	_, l := layoutOf(t, records)
	if len(l.Rows) != 100 {
		t.Errorf("len(Rows) = %d, want 100", len(l.Rows))
	}
	if l.Width != 1 {
		t.Errorf("Width = %d, want 1", l.Width)
	}
	for _, n := range l.Nodes() {
		if n.Lane != 0 || len(n.PassThrough) != 0 {
			t.Fatalf("row %s: lane %d pass %v", n.ID, n.Lane, n.PassThrough)
		}
	}
}

func TestCompute_ShallowHistory(t *testing.T) {
	_, l := layoutOf(t, []dag.Record{
		rec("tip", 3, "mid"),
		rec("mid", 2, "gone"),
	})
	want := []Row{
		NodeRow{ID: "tip", Lane: 0},
		NodeRow{ID: "mid", Lane: 0, Truncated: true},
	}
	if !reflect.DeepEqual(l.Rows, want) {
		t.Errorf("Rows = %#v, want %#v", l.Rows, want)
	}
	if !l.Truncated {
		t.Error("layout should report truncation")
	}
}

func TestCompute_LaneEndsBeforeReuse(t *testing.T) {
	// Two unrelated truncated commits share lane 0 but must not be joined.
	_, l := layoutOf(t, []dag.Record{
		rec("a", 5, "x"),
		rec("b", 4, "y"),
	})
	if len(l.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(l.Rows))
	}
	e, ok := l.Rows[1].(EdgeRow)
	if !ok {
		t.Fatalf("Rows[1] = %T, want EdgeRow", l.Rows[1])
	}
	if len(e.Segments) != 0 {
		t.Errorf("Segments = %v, want none", e.Segments)
	}
}

func TestCompute_Empty(t *testing.T) {
	_, l := layoutOf(t, nil)
	if len(l.Rows) != 0 || l.Width != 0 || l.Len() != 0 {
		t.Errorf("empty graph should give an empty layout: %+v", l)
	}
}

func TestCompute_Find(t *testing.T) {
	_, l := layoutOf(t, []dag.Record{
		rec("A", 1),
		rec("B", 2, "A"),
		rec("C", 3, "A"),
		rec("D", 4, "B", "C"),
	})
	n, i, ok := l.Find("C")
	if !ok || n.ID != "C" || i != 2 {
		t.Errorf("Find(C) = %v, %d, %v", n, i, ok)
	}
	if _, _, ok := l.Find("nope"); ok {
		t.Error("Find(nope) should fail")
	}
	if l.Len() != 4 {
		t.Errorf("Len() = %d, want 4", l.Len())
	}
}

// checkRows verifies that the row stream is self-consistent: every connector
// starts at a lane of the upper row and ends at a lane of the lower row, and
// every lane is accounted for.
func checkRows(t *testing.T, g *dag.Graph, l *Layout) {
	t.Helper()
	var prev *NodeRow
	var edge *EdgeRow
	for i, r := range l.Rows {
		switch r := r.(type) {
		case EdgeRow:
			if prev == nil || edge != nil {
				t.Fatalf("row %d: misplaced edge row", i)
			}
			edge = &r
		case NodeRow:
			if prev != nil {
				checkTransition(t, g, prev, edge, r)
			}
			prev, edge = &r, nil
		}
	}
	if edge != nil {
		t.Fatal("layout ends with an edge row")
	}
}

func checkTransition(t *testing.T, g *dag.Graph, up *NodeRow, edge *EdgeRow, down NodeRow) {
	t.Helper()
	upper, lower := up.Lanes(), down.Lanes()
	upNode, _ := g.Node(up.ID)
	downNode, _ := g.Node(down.ID)

	if edge == nil {
		if !slices.Equal(upper, lower) {
			t.Errorf("%s→%s: lanes %v→%v without edge row", up.ID, down.ID, upper, lower)
		}
		if upNode.IsRoot() || downNode.ChildCount() == 0 {
			t.Errorf("%s→%s: lane must not continue across a root or tip", up.ID, down.ID)
		}
		return
	}

	from := map[int]bool{}
	to := map[int]bool{}
	for _, s := range edge.Segments {
		if !slices.Contains(upper, s.From) || !slices.Contains(lower, s.To) {
			t.Errorf("%s→%s: segment %v outside lanes %v→%v", up.ID, down.ID, s, upper, lower)
		}
		if s.Kind == Straight && s.From != s.To {
			t.Errorf("%s→%s: straight segment %v changes lane", up.ID, down.ID, s)
		}
		from[s.From] = true
		to[s.To] = true
	}
	for _, l := range upper {
		if !from[l] && !(l == up.Lane && upNode.IsRoot()) {
			t.Errorf("%s→%s: upper lane %d dangles", up.ID, down.ID, l)
		}
	}
	for _, l := range lower {
		if !to[l] && !(l == down.Lane && downNode.ChildCount() == 0) {
			t.Errorf("%s→%s: lower lane %d appears from nowhere", up.ID, down.ID, l)
		}
	}
}

func mex(lanes []int) int {
	for i := 0; ; i++ {
		if !slices.Contains(lanes, i) {
			return i
		}
	}
}

func TestCompute_Properties(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		records := randomRecords(seed, 300)
		g, l := layoutOf(t, records)
		order, _ := dag.Sequence(g)
		checkRows(t, g, l)

		nodes := l.Nodes()
		if len(nodes) != len(order) {
			t.Fatalf("seed %d: %d node rows for %d commits", seed, len(nodes), len(order))
		}
		pos := make(map[dag.ID]int, len(order))
		for i, id := range order {
			pos[id] = i
			if nodes[i].ID != id {
				t.Fatalf("seed %d: row %d is %s, want %s", seed, i, nodes[i].ID, id)
			}
		}

		widest := 0
		for i, row := range nodes {
			lanes := row.Lanes()
			widest = max(widest, lanes[len(lanes)-1]+1)
			n, _ := g.Node(row.ID)

			// A tip takes the lowest free lane.
			if n.ChildCount() == 0 && row.Lane != mex(row.PassThrough) {
				t.Errorf("seed %d: tip %s in lane %d, lowest free is %d",
					seed, row.ID, row.Lane, mex(row.PassThrough))
			}

			// Lanes passing by are bounded by the open edges crossing this row.
			open := map[dag.ID]bool{}
			pending := 0
			for _, c := range g.Nodes() {
				if pos[c.ID] >= i {
					continue
				}
				for _, p := range c.Parents {
					if pos[p] > i {
						open[p] = true
						pending++
					}
				}
			}
			if len(row.PassThrough) < len(open) || len(row.PassThrough) > pending {
				t.Errorf("seed %d row %d: %d lanes pass by, open tips %d, open edges %d",
					seed, i, len(row.PassThrough), len(open), pending)
			}
		}
		if l.Width != widest {
			t.Errorf("seed %d: Width = %d, highest lane used %d", seed, l.Width, widest-1)
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	records := randomRecords(99, 500)
	_, first := layoutOf(t, records)

	shuffled := slices.Clone(records)
	rand.New(rand.NewPCG(1, 2)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	_, second := layoutOf(t, shuffled)

	if !reflect.DeepEqual(first.Rows, second.Rows) || first.Width != second.Width {
		t.Error("layout depends on record input order")
	}
	if fmt.Sprintf("%#v", first.Rows) != fmt.Sprintf("%#v", second.Rows) {
		t.Error("layouts are not byte-identical")
	}
}

func TestLanePool(t *testing.T) {
	var p lanePool
	for want := range 3 {
		if got := p.acquire(); got != want {
			t.Fatalf("acquire() = %d, want %d", got, want)
		}
	}
	p.release(2)
	p.release(0)
	for _, want := range []int{0, 2, 3} {
		if got := p.acquire(); got != want {
			t.Errorf("acquire() = %d, want %d", got, want)
		}
	}
	if p.width != 4 {
		t.Errorf("width = %d, want 4", p.width)
	}
}

func TestNodeRow_Lanes(t *testing.T) {
	tests := []struct {
		row  NodeRow
		want []int
	}{
		{NodeRow{Lane: 0}, []int{0}},
		{NodeRow{Lane: 1, PassThrough: []int{0, 2}}, []int{0, 1, 2}},
		{NodeRow{Lane: 3, PassThrough: []int{0, 1}}, []int{0, 1, 3}},
		{NodeRow{Lane: 0, PassThrough: []int{2}}, []int{0, 2}},
	}
	for _, tt := range tests {
		if got := tt.row.Lanes(); !slices.Equal(got, tt.want) {
			t.Errorf("%+v.Lanes() = %v, want %v", tt.row, got, tt.want)
		}
	}
}
