package params

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	v := Default()
	assert.Equal(t, 0.5, v.Hardness)
	assert.Equal(t, 1.0, v.Mix)
	assert.Zero(t, v.DriveDB)
	assert.True(t, v.Oversampling)
	assert.False(t, v.Bypass)
	assert.False(t, v.DCBlock)
}

func TestValues_GetSet(t *testing.T) {
	var v Values
	for _, s := range Specs() {
		v.set(s.ID, s.Max)
		assert.Equal(t, s.Max, v.Get(s.ID), s.Key)
	}
	assert.Zero(t, v.Get(numIDs))
}

func TestStore_Set(t *testing.T) {
	s := NewStore(Default())

	require.NoError(t, s.Set(Drive, 18))
	require.NoError(t, s.Set(Bypass, 1))
	require.NoError(t, s.Set(Mix, 7)) // clamped

	v := s.Load()
	assert.Equal(t, 18.0, v.DriveDB)
	assert.True(t, v.Bypass)
	assert.Equal(t, 1.0, v.Mix)

	assert.ErrorIs(t, s.Set(numIDs, 1), ErrUnknownParam)
	assert.ErrorIs(t, s.Set(Drive, math.Inf(1)), ErrNotFinite)
	assert.ErrorIs(t, s.SetNormalized(Drive, math.NaN()), ErrNotFinite)
}

func TestStore_SetNormalized(t *testing.T) {
	s := NewStore(Default())

	require.NoError(t, s.SetNormalized(Threshold, 0.5))
	assert.InDelta(t, -12.0, s.Load().ThresholdDB, 1e-12)

	n, err := s.Normalized(Threshold)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, n, 1e-12)

	_, err = s.Normalized(-3)
	assert.ErrorIs(t, err, ErrUnknownParam)
}

// TestStore_SnapshotIsImmutable verifies a loaded snapshot does not change
// when the store is updated afterwards.
func TestStore_SnapshotIsImmutable(t *testing.T) {
	s := NewStore(Default())
	before := s.Load()

	require.NoError(t, s.Set(Hardness, 0.9))

	assert.Equal(t, 0.5, before.Hardness)
	assert.Equal(t, 0.9, s.Load().Hardness)
	assert.NotSame(t, before, s.Load())
}

func TestStore_ReplaceClamps(t *testing.T) {
	s := NewStore(Values{PreGainDB: -40, Hardness: math.NaN(), Mix: 0.5})
	v := s.Load()
	assert.Equal(t, -18.0, v.PreGainDB)
	assert.Equal(t, 0.5, v.Hardness)

	s.Replace(Values{DriveDB: 99, ThresholdDB: -99})
	v = s.Load()
	assert.Equal(t, 36.0, v.DriveDB)
	assert.Equal(t, -30.0, v.ThresholdDB)
}

// TestStore_ConcurrentWriters checks that snapshots stay consistent while
// writers race a reader. Run with -race.
func TestStore_ConcurrentWriters(t *testing.T) {
	s := NewStore(Default())

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				db := float64((w*500 + i) % 36)
				s.Update(func(v *Values) {
					v.DriveDB = db
					v.ThresholdDB = -db / 2 // kept in lockstep with drive
				})
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 2000 {
			v := s.Load()
			if v.ThresholdDB != -v.DriveDB/2 {
				t.Errorf("torn snapshot: drive %g threshold %g", v.DriveDB, v.ThresholdDB)
				return
			}
		}
	}()

	wg.Wait()
	<-done
}

func TestStore_LostUpdates(t *testing.T) {
	s := NewStore(Values{})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				s.Update(func(v *Values) { v.DriveDB += 0.01 })
			}
		}()
	}
	wg.Wait()

	assert.InDelta(t, 8.0, s.Load().DriveDB, 1e-9)
}

func BenchmarkStoreLoad(b *testing.B) {
	s := NewStore(Default())
	b.ReportAllocs()
	var sink float64
	for b.Loop() {
		sink += s.Load().DriveDB
	}
	_ = sink
}
