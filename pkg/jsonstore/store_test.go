package jsonstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type widget struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Created  time.Time `json:"createdDate"`
	Modified time.Time `json:"lastModifiedDate"`
}

func (w *widget) GetID() int64   { return w.ID }
func (w *widget) SetID(id int64) { w.ID = id }

func (w *widget) Timestamps() (time.Time, time.Time) { return w.Created, w.Modified }

func (w *widget) SetTimestamps(created, modified time.Time) {
	w.Created, w.Modified = created, modified
}

func newWidgetStore(t *testing.T, dir string, opts ...Option) *Store[*widget] {
	t.Helper()
	s, err := New[*widget](dir, "widgets.json", "widget", opts...)
	require.NoError(t, err)
	return s
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestListMissingFileIsEmpty(t *testing.T) {
	s := newWidgetStore(t, filepath.Join(t.TempDir(), "nested"))

	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NotNil(t, all)
}

func TestListEmptyFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widgets.json"), []byte("  \n"), 0o644))

	all, err := newWidgetStore(t, dir).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSaveAssignsIDsAndTimestamps(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newWidgetStore(t, t.TempDir(), WithClock(fixedClock(at)))

	first, err := s.Save(ctx, &widget{Name: "GP38-2"})
	require.NoError(t, err)
	second, err := s.Save(ctx, &widget{Name: "SD40-2"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.True(t, first.Created.Equal(at))
	assert.True(t, first.Created.Equal(first.Modified))

	found, err := s.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "SD40-2", found.Name)
	assert.True(t, found.Created.Equal(at))
	assert.True(t, found.Modified.Equal(found.Created))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "GP38-2", all[0].Name)
	assert.Equal(t, "SD40-2", all[1].Name)
}

func TestUpdateKeepsIdentityAndAdvancesModified(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newWidgetStore(t, t.TempDir(), WithClock(fixedClock(at)))

	saved, err := s.Save(ctx, &widget{Name: "before"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, saved.ID, &widget{ID: 99, Name: "after", Created: at.Add(-time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)

	found, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", found.Name)
	assert.True(t, found.Created.Equal(at))
	assert.True(t, found.Modified.After(at), "modified must be strictly later even with a frozen clock")
}

func TestModifyChangesOneField(t *testing.T) {
	ctx := context.Background()
	s := newWidgetStore(t, t.TempDir())

	saved, err := s.Save(ctx, &widget{Name: "old"})
	require.NoError(t, err)

	_, err = s.Modify(ctx, saved.ID, func(w *widget) error {
		w.Name = "new"
		return nil
	})
	require.NoError(t, err)

	found, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", found.Name)
	assert.True(t, found.Modified.After(saved.Modified))
}

func TestMissingIDLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := newWidgetStore(t, dir)

	_, err := s.Save(ctx, &widget{Name: "only"})
	require.NoError(t, err)
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	_, err = s.FindByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Update(ctx, 42, &widget{Name: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Modify(ctx, 42, func(*widget) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 42), ErrNotFound)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDeleteRemovesRecord(t *testing.T) {
	ctx := context.Background()
	s := newWidgetStore(t, t.TempDir())

	a, err := s.Save(ctx, &widget{Name: "a"})
	require.NoError(t, err)
	b, err := s.Save(ctx, &widget{Name: "b"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, a.ID))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)
	_, err = s.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCorruptFileIsPersistenceError(t *testing.T) {
	for name, content := range map[string]string{
		"garbage":    "{not json",
		"object":     `{"id": 1}`,
		"null entry": `[{"id": 1}, null]`,
		"bad field":  `[{"id": "one"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "widgets.json"), []byte(content), 0o644))
			s := newWidgetStore(t, dir)

			_, err := s.List(context.Background())
			assert.ErrorIs(t, err, ErrPersistence)
			_, err = s.Save(context.Background(), &widget{Name: "x"})
			assert.ErrorIs(t, err, ErrPersistence)
		})
	}
}

func TestFailedWriteLeavesCollectionUntouched(t *testing.T) {
	ctx := context.Background()
	s := newWidgetStore(t, t.TempDir())

	a, err := s.Save(ctx, &widget{Name: "a"})
	require.NoError(t, err)
	_, err = s.Save(ctx, &widget{Name: "b"})
	require.NoError(t, err)

	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	listed, err := s.List(ctx)
	require.NoError(t, err)

	s.writeFile = func(path string, data []byte) error {
		if path == s.Path() {
			return errors.New("no space left on device")
		}
		return writeAtomic(path, data)
	}

	_, err = s.Update(ctx, a.ID, &widget{Name: "changed"})
	assert.ErrorIs(t, err, ErrPersistence)
	_, err = s.Modify(ctx, a.ID, func(w *widget) error { w.Name = "changed"; return nil })
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, s.Delete(ctx, a.ID), ErrPersistence)
	_, err = s.Save(ctx, &widget{Name: "c"})
	assert.ErrorIs(t, err, ErrPersistence)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)

	relisted, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, relisted, len(listed))
	for i := range listed {
		assert.Equal(t, listed[i].ID, relisted[i].ID)
		assert.Equal(t, listed[i].Name, relisted[i].Name)
		assert.True(t, listed[i].Modified.Equal(relisted[i].Modified))
	}
}

func TestWriteAtomicFailureKeepsTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "widgets.json")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0o644))

	assert.Error(t, writeAtomic(target, []byte("[]")))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be cleaned up")
}

func TestSaveSeedsCounterOnce(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	ids := NewAllocator()
	s := newWidgetStore(t, dir, WithAllocator(ids))

	_, ok := ids.Current("widget")
	assert.False(t, ok)
	_, err := s.Save(ctx, &widget{})
	require.NoError(t, err)

	// A record written behind the store's back no longer moves the cached counter.
	require.NoError(t, os.WriteFile(s.Path(), []byte(`[{"id": 1}, {"id": 40}]`), 0o644))
	saved, err := s.Save(ctx, &widget{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.ID)
}

func TestSaveSeedsFromExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widgets.json"),
		[]byte(`[{"id": 5, "name": "five"}, {"id": 2, "name": "two"}]`), 0o644))
	s := newWidgetStore(t, dir)

	saved, err := s.Save(context.Background(), &widget{Name: "six"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), saved.ID)
}

func TestIDsNotReusedAcrossRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := newWidgetStore(t, dir)

	for range 3 {
		_, err := s.Save(ctx, &widget{Name: "w"})
		require.NoError(t, err)
	}
	require.NoError(t, s.Delete(ctx, 3))

	reopened := newWidgetStore(t, dir)
	saved, err := reopened.Save(ctx, &widget{Name: "after restart"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), saved.ID)
}

func TestDeleteRetiresHandWrittenIDs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widgets.json"), []byte(`[{"id": 9}]`), 0o644))

	require.NoError(t, newWidgetStore(t, dir).Delete(ctx, 9))

	saved, err := newWidgetStore(t, dir).Save(ctx, &widget{})
	require.NoError(t, err)
	assert.Equal(t, int64(10), saved.ID)
}

func TestConcurrentSavesLoseNothing(t *testing.T) {
	ctx := context.Background()
	s := newWidgetStore(t, t.TempDir())

	const n = 32
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			saved, err := s.Save(ctx, &widget{Name: "concurrent"})
			if assert.NoError(t, err) {
				ids <- saved.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	s := newWidgetStore(t, dir)
	_, err := s.Save(context.Background(), &widget{Name: "w"})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"widgets.json", "widgets.json.seq"}, names)
}

func TestIDsStrictlyIncreaseAcrossSavesAndDeletes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		dir, err := os.MkdirTemp(t.TempDir(), "prop-")
		if err != nil {
			rt.Fatal(err)
		}
		s, err := New[*widget](dir, "widgets.json", "widget")
		if err != nil {
			rt.Fatal(err)
		}

		var last int64
		var live []int64
		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for range steps {
			if len(live) > 0 && rapid.Bool().Draw(rt, "delete") {
				i := rapid.IntRange(0, len(live)-1).Draw(rt, "victim")
				if err := s.Delete(ctx, live[i]); err != nil {
					rt.Fatal(err)
				}
				live = append(live[:i], live[i+1:]...)
				continue
			}
			saved, err := s.Save(ctx, &widget{})
			if err != nil {
				rt.Fatal(err)
			}
			if saved.ID <= last {
				rt.Fatalf("id %d not greater than previous %d", saved.ID, last)
			}
			last = saved.ID
			live = append(live, saved.ID)
		}

		all, err := s.List(ctx)
		if err != nil {
			rt.Fatal(err)
		}
		if len(all) != len(live) {
			rt.Fatalf("stored %d records, expected %d", len(all), len(live))
		}
	})
}
