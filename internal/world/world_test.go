package world

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/collidesim/internal/body"
	"github.com/san-kum/collidesim/internal/geom"
)

func scene() []body.Object {
	return []body.Object{
		body.MustBox(body.Box{Min: geom.V(450, 100), Max: geom.V(550, 200), Mass: 5, Restitution: 0.6}),
		body.MustCircle(body.Circle{Mass: 5, Radius: 50, Restitution: 0.8, Velocity: geom.V(2, 0), Center: geom.V(300, 150)}),
	}
}

func TestNewCopiesInput(t *testing.T) {
	objs := scene()
	w := New(objs)

	objs[1].SetVelocity(geom.V(-7, 0))
	require.Equal(t, geom.V(2, 0), w.Snapshot()[1].Velocity())
	require.Equal(t, 2, w.Len())
}

func TestSnapshotIsIndependent(t *testing.T) {
	w := New(scene())

	snap := w.Snapshot()
	snap[0].Translate(geom.V(100, 100))

	require.Equal(t, geom.V(500, 150), w.Snapshot()[0].Center())
}

func TestSnapshotPreservesOrder(t *testing.T) {
	w := New(scene())
	snap := w.Snapshot()

	require.Equal(t, body.KindBox, snap[0].Kind())
	require.Equal(t, body.KindCircle, snap[1].Kind())
}

func TestUpdateMutatesInPlace(t *testing.T) {
	w := New(scene())
	w.Update(func(objs []body.Object) {
		objs[1].Translate(geom.V(10, 0))
	})
	require.Equal(t, geom.V(310, 150), w.Snapshot()[1].Center())
}

func TestConcurrentSnapshotAndUpdate(t *testing.T) {
	w := New(scene())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			w.Update(func(objs []body.Object) {
				for k := range objs {
					objs[k].Translate(geom.V(1, 0))
				}
			})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := w.Snapshot()
			// both objects move in the same critical section
			assert.Equal(t, snap[0].Center().X-500, snap[1].Center().X-300)
		}
	}()
	wg.Wait()

	require.Equal(t, 1300.0, w.Snapshot()[1].Center().X)
}

func TestFingerprint(t *testing.T) {
	a := scene()
	b := Clone(a)
	require.Equal(t, Fingerprint(a), Fingerprint(b))

	b[1].SetVelocity(geom.V(2, 1e-12))
	require.NotEqual(t, Fingerprint(a), Fingerprint(b))

	require.NotEqual(t, Fingerprint(a[:1]), Fingerprint(a))
}
