package sim_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/collidesim/internal/body"
	"github.com/san-kum/collidesim/internal/geom"
	"github.com/san-kum/collidesim/internal/logging"
	"github.com/san-kum/collidesim/internal/sim"
)

func fastConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Tick = time.Millisecond
	cfg.Frame = 2 * time.Millisecond
	cfg.Duration = 60 * time.Millisecond
	return cfg
}

// Two boxes far apart moving in lockstep; they never touch.
func convoy() []body.Object {
	return []body.Object{
		body.MustBox(body.Box{Min: geom.V(0, 0), Max: geom.V(10, 10), Velocity: geom.V(1, 0), Mass: 1, Restitution: 1}),
		body.MustBox(body.Box{Min: geom.V(0, 100), Max: geom.V(10, 110), Velocity: geom.V(1, 0), Mass: 1, Restitution: 1}),
	}
}

var _ = Describe("Engine", func() {
	var e *sim.Engine

	BeforeEach(func() {
		var err error
		e, err = sim.New(convoy(), fastConfig(), sim.WithLogger(logging.Nop()))
		Expect(err).NotTo(HaveOccurred())
	})

	It("stops both actors when Stop is called", func() {
		done := make(chan error, 1)
		go func() { done <- e.Run(context.Background()) }()

		Eventually(func() int64 { return e.Stats().Ticks }).Should(BeNumerically(">", 5))
		Eventually(func() int64 { return e.Stats().CollisionTicks }).Should(BeNumerically(">", 5))

		e.Stop()
		Eventually(done).Should(Receive(BeNil()))
		Expect(e.Running()).To(BeFalse())

		ticks := e.Stats().Ticks
		Consistently(func() int64 { return e.Stats().Ticks }, "20ms").Should(Equal(ticks))
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- e.Run(ctx) }()

		Eventually(func() int64 { return e.Stats().Ticks }).Should(BeNumerically(">", 0))
		cancel()
		Eventually(done).Should(Receive(BeNil()))
		Expect(e.Running()).To(BeFalse())
	})

	It("refuses to run twice", func() {
		go func() { _ = e.Run(context.Background()) }()
		Eventually(func() int64 { return e.Stats().Ticks }).Should(BeNumerically(">", 0))

		Expect(e.Run(context.Background())).To(MatchError(sim.ErrRunning))
		e.Stop()
	})

	It("never hands out a torn snapshot", func() {
		done := make(chan error, 1)
		go func() { done <- e.Run(context.Background()) }()

		for i := 0; i < 200; i++ {
			snap := e.Snapshot()
			Expect(snap).To(HaveLen(2))
			Expect(snap[0].Center().X).To(Equal(snap[1].Center().X))
		}
		e.Stop()
		Eventually(done).Should(Receive())
	})

	It("runs for the configured duration and reports totals", func() {
		var mu sync.Mutex
		frames := 0
		res, err := e.RunFor(context.Background(), func(snap []body.Object, _ time.Duration) {
			mu.Lock()
			frames++
			mu.Unlock()
			Expect(snap).To(HaveLen(2))
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Running()).To(BeFalse())

		Expect(res.Elapsed).To(BeNumerically(">=", 60*time.Millisecond))
		Expect(res.Ticks).To(BeNumerically(">", 0))
		Expect(res.Contacts).To(BeZero())
		Expect(res.Final).To(HaveLen(2))
		Expect(res.Final[0].Center().X).To(Equal(5 + float64(res.Ticks)))

		mu.Lock()
		Expect(frames).To(BeNumerically(">", 0))
		mu.Unlock()
	})

	It("records contacts between actors", func() {
		objs := []body.Object{
			body.MustBox(body.Box{Min: geom.V(0, 0), Max: geom.V(10, 10), Velocity: geom.V(1, 0), Mass: 1, Restitution: 1}),
			body.MustBox(body.Box{Min: geom.V(30, 0), Max: geom.V(40, 10), Velocity: geom.V(-1, 0), Mass: 1, Restitution: 1}),
		}
		cfg := fastConfig()
		cfg.Duration = 100 * time.Millisecond
		e, err := sim.New(objs, cfg, sim.WithLogger(logging.Nop()))
		Expect(err).NotTo(HaveOccurred())

		res, err := e.RunFor(context.Background(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Contacts).To(BeNumerically(">", 0))
		Expect(res.Resolved).To(BeNumerically(">", 0))

		a, b := res.Final[0].Velocity(), res.Final[1].Velocity()
		Expect(a.X + b.X).To(BeNumerically("~", 0, 1e-9))
	})
})
