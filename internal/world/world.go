package world

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/san-kum/collidesim/internal/body"
)

// World is the ordered object sequence shared by the simulation actors.
// Insertion order is preserved and is the only identity an object has.
type World struct {
	mu      sync.Mutex
	objects []body.Object
}

// New copies objs into a fresh world.
func New(objs []body.Object) *World {
	w := &World{objects: make([]body.Object, len(objs))}
	copy(w.objects, objs)
	return w
}

func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.objects)
}

// Snapshot copies the whole sequence under the lock. The copy never aliases
// world state.
func (w *World) Snapshot() []body.Object {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Clone(w.objects)
}

// Update runs fn inside a single critical section. fn may mutate objects in
// place but must not retain the slice.
func (w *World) Update(fn func(objs []body.Object)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.objects)
}

// Clone returns an independent copy of objs.
func Clone(objs []body.Object) []body.Object {
	c := make([]body.Object, len(objs))
	copy(c, objs)
	return c
}

// Fingerprint hashes the kinematic state of objs bit for bit. Two sequences
// with equal fingerprints are, for practical purposes, identical.
func Fingerprint(objs []body.Object) uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}

	for _, o := range objs {
		_, _ = d.Write([]byte{byte(o.Kind())})
		switch o.Kind() {
		case body.KindCircle:
			c, _ := o.Circle()
			put(c.Center.X)
			put(c.Center.Y)
			put(c.Radius)
		case body.KindBox:
			b, _ := o.Box()
			put(b.Min.X)
			put(b.Min.Y)
			put(b.Max.X)
			put(b.Max.Y)
		}
		v := o.Velocity()
		put(v.X)
		put(v.Y)
		put(o.Mass())
		put(o.Restitution())
	}
	return d.Sum64()
}
