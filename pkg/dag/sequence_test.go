package dag

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func mustBuild(t *testing.T, records []Record) *Graph {
	t.Helper()
	g, _, err := Build(records)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return g
}

func TestSequence(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    []ID
	}{
		{
			name:    "linear",
			records: []Record{rec("a", 1), rec("b", 2, "a"), rec("c", 3, "b")},
			want:    []ID{"c", "b", "a"},
		},
		{
			name: "branch and merge",
			records: []Record{
				rec("a", 1),
				rec("b", 2, "a"),
				rec("c", 3, "a"),
				rec("d", 4, "b", "c"),
			},
			want: []ID{"d", "c", "b", "a"},
		},
		{
			name:    "equal timestamps break by id",
			records: []Record{rec("r", 1), rec("y", 5, "r"), rec("x", 5, "r"), rec("z", 5, "r")},
			want:    []ID{"x", "y", "z", "r"},
		},
		{
			name:    "clock skew keeps children first",
			records: []Record{rec("parent", 10), rec("child", 5, "parent")},
			want:    []ID{"child", "parent"},
		},
		{
			name: "disconnected components interleave by time",
			records: []Record{
				rec("a1", 1), rec("a2", 3, "a1"),
				rec("b1", 2), rec("b2", 4, "b1"),
			},
			want: []ID{"b2", "a2", "b1", "a1"},
		},
		{
			name:    "empty graph",
			records: nil,
			want:    []ID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustBuild(t, tt.records)
			got, err := Sequence(g)
			if err != nil {
				t.Fatalf("Sequence() error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Sequence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSequence_TopologicalValidity(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		g := mustBuild(t, randomHistory(seed, 400))
		order, err := Sequence(g)
		if err != nil {
			t.Fatalf("seed %d: Sequence() error: %v", seed, err)
		}
		if len(order) != g.Len() {
			t.Fatalf("seed %d: sequenced %d of %d nodes", seed, len(order), g.Len())
		}
		pos := make(map[ID]int, len(order))
		for i, id := range order {
			pos[id] = i
		}
		for _, n := range g.Nodes() {
			for _, p := range n.Parents {
				if pos[n.ID] >= pos[p] {
					t.Errorf("seed %d: child %s at %d not before parent %s at %d",
						seed, n.ID, pos[n.ID], p, pos[p])
				}
			}
		}
	}
}

func TestSequence_Deterministic(t *testing.T) {
	records := randomHistory(7, 300)
	first, err := Sequence(mustBuild(t, records))
	if err != nil {
		t.Fatalf("Sequence() error: %v", err)
	}

	reversed := slices.Clone(records)
	slices.Reverse(reversed)
	second, err := Sequence(mustBuild(t, reversed))
	if err != nil {
		t.Fatalf("Sequence() error: %v", err)
	}
	if !slices.Equal(first, second) {
		t.Error("Sequence() depends on record input order")
	}
}

func TestSequence_Large(t *testing.T) {
	const n = 20000
	records := make([]Record, 0, n)
	var prev ID
	for i := range n {
		r := Record{ID: ID(time.Unix(int64(i), 0).UTC().Format("20060102150405")), Time: time.Unix(int64(i), 0)}
		if prev != "" {
			r.Parents = []ID{prev}
		}
		prev = r.ID
		records = append(records, r)
	}
	g := mustBuild(t, records)

	start := time.Now()
	order, err := Sequence(g)
	if err != nil {
		t.Fatalf("Sequence() error: %v", err)
	}
	if len(order) != n {
		t.Fatalf("len = %d, want %d", len(order), n)
	}
	if order[0] != prev {
		t.Errorf("first = %s, want newest %s", order[0], prev)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Sequence() took %s", elapsed)
	}
}

func TestSequence_RejectsHandBuiltCycle(t *testing.T) {
	g := &Graph{
		nodes: map[ID]*Node{
			"a": {ID: "a", Parents: []ID{"b"}, children: []ID{"b"}},
			"b": {ID: "b", Parents: []ID{"a"}, children: []ID{"a"}},
		},
		ids: []ID{"a", "b"},
	}
	_, err := Sequence(g)
	if !errors.Is(err, ErrCycle) {
		t.Errorf("Sequence() error = %v, want ErrCycle", err)
	}
}
