package history_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/internal/history"
	"github.com/JaimeStill/scribe/pkg/diff"
)

func ptr[T any](v T) *T { return &v }

type memStore struct {
	entries map[uuid.UUID][]history.Entry
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[uuid.UUID][]history.Entry)}
}

func (m *memStore) Chain(_ context.Context, segmentID uuid.UUID) ([]history.Entry, error) {
	return append([]history.Entry(nil), m.entries[segmentID]...), nil
}

func (m *memStore) Append(_ context.Context, e history.Entry) (history.Entry, error) {
	m.entries[e.SegmentID] = append(m.entries[e.SegmentID], e)
	return e, nil
}

func (m *memStore) Rewrite(_ context.Context, id uuid.UUID, d string, at time.Time) (history.Entry, error) {
	for seg, chain := range m.entries {
		for i := range chain {
			if chain[i].ID == id {
				chain[i].Diff = d
				chain[i].Timestamp = at
				m.entries[seg] = chain
				return chain[i], nil
			}
		}
	}
	return history.Entry{}, history.ErrNotFound
}

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newEngine() *history.Engine {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return history.NewEngine(c.now)
}

type edit struct {
	old    string
	new    string
	author *uuid.UUID
	typ    history.ChangeType
}

func apply(t *testing.T, e *history.Engine, s history.Store, segment uuid.UUID, edits []edit) {
	t.Helper()
	for i, ed := range edits {
		_, err := e.Track(context.Background(), s, history.Change{
			SegmentID: segment,
			Old:       ed.old,
			New:       ed.new,
			AuthorID:  ed.author,
			Type:      ed.typ,
		})
		if err != nil {
			t.Fatalf("edit %d: Track() error = %v", i, err)
		}
	}
}

func TestTrackUnchangedIsNoop(t *testing.T) {
	s := newMemStore()
	segment := uuid.New()
	author := ptr(uuid.New())

	for _, typ := range []history.ChangeType{history.ManualEdit, history.InitialImport} {
		for _, a := range []*uuid.UUID{nil, author} {
			entry, err := newEngine().Track(context.Background(), s, history.Change{
				SegmentID: segment,
				Old:       "same",
				New:       "same",
				AuthorID:  a,
				Type:      typ,
			})
			if err != nil {
				t.Fatalf("Track() error = %v", err)
			}
			if entry != nil {
				t.Errorf("Track() = %+v, want nil", entry)
			}
		}
	}

	if n := len(s.entries[segment]); n != 0 {
		t.Errorf("entries = %d, want 0", n)
	}
}

func TestTrackMergeRules(t *testing.T) {
	alice := ptr(uuid.New())
	bob := ptr(uuid.New())

	tests := []struct {
		name      string
		edits     []edit
		wantCount int
	}{
		{
			"same author same type merges",
			[]edit{
				{"", "T", alice, history.ManualEdit},
				{"T", "Tr", alice, history.ManualEdit},
				{"Tr", "Translation", alice, history.ManualEdit},
			},
			1,
		},
		{
			"different author appends",
			[]edit{
				{"", "Translation", alice, history.ManualEdit},
				{"Translation", "Translated", bob, history.ManualEdit},
			},
			2,
		},
		{
			"different type appends",
			[]edit{
				{"", "Translation", alice, history.MachineTranslation},
				{"Translation", "Translated", alice, history.ManualEdit},
			},
			2,
		},
		{
			"null authors never merge",
			[]edit{
				{"", "Translation", nil, history.MachineTranslation},
				{"Translation", "Translated", nil, history.MachineTranslation},
			},
			2,
		},
		{
			"author after null appends",
			[]edit{
				{"", "Translation", nil, history.ManualEdit},
				{"Translation", "Translated", alice, history.ManualEdit},
			},
			2,
		},
		{
			"merge resumes after interleaved author",
			[]edit{
				{"", "one", alice, history.ManualEdit},
				{"one", "two", bob, history.ManualEdit},
				{"two", "three", alice, history.ManualEdit},
				{"three", "four", alice, history.ManualEdit},
			},
			3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newMemStore()
			segment := uuid.New()
			apply(t, newEngine(), s, segment, tt.edits)

			chain := s.entries[segment]
			if len(chain) != tt.wantCount {
				t.Fatalf("entries = %d, want %d", len(chain), tt.wantCount)
			}

			got, err := history.Replay(chain)
			if err != nil {
				t.Fatalf("Replay() error = %v", err)
			}
			want := tt.edits[len(tt.edits)-1].new
			if got != want {
				t.Errorf("Replay() = %q, want %q", got, want)
			}
		})
	}
}

func TestTrackMergeRewritesTimestamp(t *testing.T) {
	s := newMemStore()
	segment := uuid.New()
	author := ptr(uuid.New())
	e := newEngine()

	first, err := e.Track(context.Background(), s, history.Change{
		SegmentID: segment, Old: "", New: "a", AuthorID: author, Type: history.ManualEdit,
	})
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}

	second, err := e.Track(context.Background(), s, history.Change{
		SegmentID: segment, Old: "a", New: "ab", AuthorID: author, Type: history.ManualEdit,
	})
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("merged entry id = %s, want %s", second.ID, first.ID)
	}
	if !second.Timestamp.After(first.Timestamp) {
		t.Errorf("merged timestamp %v not after %v", second.Timestamp, first.Timestamp)
	}

	d, err := diff.Decode(second.Diff)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if d.OldLen != 0 {
		t.Errorf("merged diff old_len = %d, want 0 (computed from base text)", d.OldLen)
	}
}

func TestTrackInvalidChangeType(t *testing.T) {
	_, err := newEngine().Track(context.Background(), newMemStore(), history.Change{
		SegmentID: uuid.New(),
		Old:       "a",
		New:       "b",
		Type:      "keystroke",
	})
	if !errors.Is(err, history.ErrInvalidChangeType) {
		t.Errorf("Track() error = %v, want ErrInvalidChangeType", err)
	}
}

func TestTrackInitialImportReconstructs(t *testing.T) {
	s := newMemStore()
	segment := uuid.New()

	entry, err := newEngine().Track(context.Background(), s, history.Change{
		SegmentID: segment,
		Old:       "",
		New:       "Translation",
		Type:      history.MemorySubstitution,
	})
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}

	got, err := diff.ApplyEncoded("", entry.Diff)
	if err != nil {
		t.Fatalf("ApplyEncoded() error = %v", err)
	}
	if got != "Translation" {
		t.Errorf("ApplyEncoded() = %q, want %q", got, "Translation")
	}
	if entry.ChangeType != history.MemorySubstitution {
		t.Errorf("ChangeType = %q, want %q", entry.ChangeType, history.MemorySubstitution)
	}
}

func TestReplayCorruptChain(t *testing.T) {
	_, err := history.Replay([]history.Entry{{ID: uuid.New(), Diff: "not a diff"}})
	if !errors.Is(err, history.ErrCorruptChain) {
		t.Errorf("Replay() error = %v, want ErrCorruptChain", err)
	}
}

func TestParseChangeType(t *testing.T) {
	valid := []string{
		"initial_import", "machine_translation", "tm_substitution",
		"glossary_substitution", "repetition", "manual_edit",
	}
	for _, s := range valid {
		if _, err := history.ParseChangeType(s); err != nil {
			t.Errorf("ParseChangeType(%q) error = %v", s, err)
		}
	}

	if _, err := history.ParseChangeType("typo"); !errors.Is(err, history.ErrInvalidChangeType) {
		t.Errorf("ParseChangeType(typo) error = %v, want ErrInvalidChangeType", err)
	}
}

// randomText either mutates cur by one rune, repeats it, or replaces it.
func randomText(r *rand.Rand, cur string) string {
	alphabet := []rune("ab cé東🚀")
	runes := []rune(cur)

	switch r.IntN(4) {
	case 0:
		return cur
	case 1:
		at := r.IntN(len(runes) + 1)
		ins := alphabet[r.IntN(len(alphabet))]
		return string(runes[:at]) + string(ins) + string(runes[at:])
	case 2:
		if len(runes) == 0 {
			return cur
		}
		at := r.IntN(len(runes))
		return string(runes[:at]) + string(runes[at+1:])
	default:
		out := make([]rune, r.IntN(9))
		for i := range out {
			out[i] = alphabet[r.IntN(len(alphabet))]
		}
		return string(out)
	}
}

func TestTrackRandomSequences(t *testing.T) {
	authors := []*uuid.UUID{nil, ptr(uuid.New()), ptr(uuid.New())}
	types := []history.ChangeType{
		history.InitialImport,
		history.MachineTranslation,
		history.MemorySubstitution,
		history.GlossarySubstitution,
		history.Repetition,
		history.ManualEdit,
	}

	for seed := uint64(1); seed <= 8; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			r := rand.New(rand.NewPCG(seed, seed*7919))
			s := newMemStore()
			e := newEngine()
			segment := uuid.New()

			cur := ""
			for step := range 200 {
				next := randomText(r, cur)
				author := authors[r.IntN(len(authors))]
				typ := types[r.IntN(len(types))]

				before := s.entries[segment]
				want := len(before)
				if next != cur {
					want++
					if len(before) > 0 && author != nil {
						latest := before[len(before)-1]
						if latest.AuthorID != nil && *latest.AuthorID == *author && latest.ChangeType == typ {
							want--
						}
					}
				}

				if _, err := e.Track(context.Background(), s, history.Change{
					SegmentID: segment,
					Old:       cur,
					New:       next,
					AuthorID:  author,
					Type:      typ,
				}); err != nil {
					t.Fatalf("step %d: Track() error = %v", step, err)
				}
				cur = next

				chain := s.entries[segment]
				if len(chain) != want {
					t.Fatalf("step %d: entries = %d, want %d", step, len(chain), want)
				}

				got, err := history.Replay(chain)
				if err != nil {
					t.Fatalf("step %d: Replay() error = %v", step, err)
				}
				if got != cur {
					t.Fatalf("step %d: Replay() = %q, want %q", step, got, cur)
				}
			}
		})
	}
}
