package session

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shopdash/internal/services/filter"
)

func TestCreateAndGet(t *testing.T) {
	m := NewManager()

	sel := filter.Selection{
		Categories:     []string{"electronics"},
		ChurnThreshold: 180,
	}

	created := m.Create(sel)
	assert.NotEmpty(t, created.ID)

	got, err := m.Get(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, sel.Categories, got.Selection.Categories)
	assert.Equal(t, 1, m.Len())
}

func TestGetUnknown(t *testing.T) {
	m := NewManager()

	_, err := m.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate(t *testing.T) {
	m := NewManager()
	s := m.Create(filter.Selection{ChurnThreshold: 180})

	updated, err := m.Update(s.ID, filter.Selection{ChurnThreshold: 90})
	assert.NoError(t, err)
	assert.Equal(t, 90, updated.Selection.ChurnThreshold)

	_, err = m.Update("nope", filter.Selection{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	m := NewManager()
	s := m.Create(filter.Selection{})

	m.Delete(s.ID)

	_, err := m.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestSessionsAreIndependent(t *testing.T) {
	m := NewManager()

	a := m.Create(filter.Selection{Categories: []string{"toys"}})
	b := m.Create(filter.Selection{Categories: []string{"books"}})

	gotA, _ := m.Get(a.ID)
	gotB, _ := m.Get(b.ID)

	assert.Equal(t, []string{"toys"}, gotA.Selection.Categories)
	assert.Equal(t, []string{"books"}, gotB.Selection.Categories)
	assert.True(t, gotA.UpdatedAt.Before(time.Now().Add(time.Second)))
}

// Readers encode the session they fetched while a writer keeps replacing
// its selection. Because Get returns a copy taken under the lock, the
// encode must never observe a half-written selection (run with -race).
func TestConcurrentGetAndUpdate(t *testing.T) {
	m := NewManager()
	s := m.Create(filter.Selection{ChurnThreshold: 180})

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			got, err := m.Get(s.ID)
			assert.NoError(t, err)
			if _, err := json.Marshal(got); err != nil {
				t.Errorf("marshal session: %v", err)
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_, err := m.Update(s.ID, filter.Selection{
				Categories:     []string{"electronics"},
				ChurnThreshold: 30 + i%300,
			})
			assert.NoError(t, err)
		}
	}()

	wg.Wait()

	got, err := m.Get(s.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"electronics"}, got.Selection.Categories)
}
