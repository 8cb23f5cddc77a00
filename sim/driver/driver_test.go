package driver

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/inference-sim/dairy-sim/sim"
)

var _ = Describe("Runner", func() {
	var (
		mockCtrl *gomock.Controller
		stepper  *MockStepper
		r        *Runner
		sp       sim.Setpoints
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		stepper = NewMockStepper(mockCtrl)
		sp = sim.DefaultSetpoints()
		r = NewRunner(stepper, time.Millisecond, sp)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should start stopped with the given setpoints", func() {
		Expect(r.Running()).To(BeFalse())
		Expect(r.Setpoints()).To(Equal(sp))
		Expect(r.Interval()).To(Equal(time.Millisecond))
		Expect(r.Ticks()).To(BeZero())
	})

	It("should fall back to the default interval", func() {
		r = NewRunner(stepper, 0, sp)
		Expect(r.Interval()).To(Equal(DefaultInterval))
	})

	It("should toggle between running and stopped", func() {
		Expect(r.Toggle()).To(BeTrue())
		Expect(r.Running()).To(BeTrue())
		Expect(r.Toggle()).To(BeFalse())
		r.Start()
		Expect(r.Running()).To(BeTrue())
		r.Stop()
		Expect(r.Running()).To(BeFalse())
	})

	It("should step with the current setpoints and return the snapshot", func() {
		want := sim.Snapshot{Tick: 1, Ready: false}
		gomock.InOrder(
			stepper.EXPECT().Step(sp),
			stepper.EXPECT().Snapshot().Return(want),
		)

		Expect(r.Tick()).To(Equal(want))
		Expect(r.Ticks()).To(Equal(int64(1)))
	})

	It("should use setpoints written between ticks on the next tick", func() {
		changed := sim.Setpoints{Pasteurization: 85, Fermentation: 28}
		gomock.InOrder(
			stepper.EXPECT().Step(sp),
			stepper.EXPECT().Snapshot(),
			stepper.EXPECT().Step(changed),
			stepper.EXPECT().Snapshot(),
		)

		r.Tick()
		r.SetSetpoints(changed)
		r.Tick()

		Expect(r.Setpoints()).To(Equal(changed))
	})

	It("should notify observers after each tick", func() {
		stepper.EXPECT().Step(gomock.Any()).Times(3)
		stepper.EXPECT().Snapshot().Return(sim.Snapshot{Tick: 7}).Times(3)

		var seen []int64
		r.Observe(func(snap sim.Snapshot) { seen = append(seen, snap.Tick) })
		r.RunTicks(3)

		Expect(seen).To(Equal([]int64{7, 7, 7}))
	})

	It("should let observers call back into the runner", func() {
		stepper.EXPECT().Step(gomock.Any())
		stepper.EXPECT().Snapshot().Return(sim.Snapshot{Ready: true})

		r.Start()
		r.Observe(func(snap sim.Snapshot) {
			if snap.Ready {
				r.Stop()
			}
		})
		r.Tick()

		Expect(r.Running()).To(BeFalse())
	})

	It("should not step for RunTicks(0)", func() {
		stepper.EXPECT().Snapshot().Return(sim.Snapshot{Tick: 3})

		Expect(r.RunTicks(0).Tick).To(Equal(int64(3)))
	})

	It("should not tick while stopped", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := r.Run(ctx)

		Expect(err).To(MatchError(context.DeadlineExceeded))
		Expect(r.Ticks()).To(BeZero())
	})

	It("should tick on the interval while running until cancelled", func() {
		stepper.EXPECT().Step(sp).MinTimes(3)
		stepper.EXPECT().Snapshot().MinTimes(3)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		r.Start()
		go func() { done <- r.Run(ctx) }()

		Eventually(r.Ticks).Should(BeNumerically(">=", 3))
		cancel()
		Eventually(done).Should(Receive(MatchError(context.Canceled)))
	})
})

var _ = Describe("Runner with a real simulator", func() {
	It("should never expose a partially applied tick", func() {
		s := sim.NewDefaultSimulator()
		r := NewRunner(s, time.Millisecond, sim.DefaultSetpoints())

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.RunTicks(300)
		}()

		// Every level change is one speed-sized transfer per pipe, so total
		// fluid is conserved in every snapshot taken between ticks.
		for i := 0; i < 200; i++ {
			snap := r.Snapshot()
			total := 0.0
			for _, v := range snap.Vessels {
				total += v.Level
			}
			Expect(total).To(BeNumerically("~", 1.0, 1e-9))
		}
		wg.Wait()
		Expect(r.Ticks()).To(Equal(int64(300)))
		Expect(r.Snapshot().Tick).To(Equal(int64(300)))
	})

	It("should reach readiness when driven headless", func() {
		s := sim.NewDefaultSimulator()
		r := NewRunner(s, DefaultInterval, sim.DefaultSetpoints())

		var readyAt int64
		r.Observe(func(snap sim.Snapshot) {
			if snap.Ready && readyAt == 0 {
				readyAt = snap.Tick
			}
		})
		snap := r.RunTicks(1000)

		Expect(readyAt).To(Equal(int64(726)))
		Expect(snap.StatusText()).To(Equal("Buttermilk is READY to drink."))
	})
})
