package water_test

import (
	"gonum.org/v1/gonum/spatial/r2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springlab/internal/water"
)

var _ = Describe("Body", func() {
	It("falls freely above the surface", func() {
		b := water.Body{Pos: r2.Vec{X: 0, Y: 100}, Vel: r2.Vec{X: 0, Y: 10}}
		b.Update(240, water.DefaultGravity, water.DefaultDrag)
		Expect(b.Pos.Y).To(Equal(110.0))
		Expect(b.Vel.Y).To(Equal(10.5))
	})

	It("is slowed below the surface", func() {
		b := water.Body{Pos: r2.Vec{X: 0, Y: 300}, Vel: r2.Vec{X: 0, Y: 10}}
		b.Update(240, water.DefaultGravity, water.DefaultDrag)
		Expect(b.Pos.Y).To(BeNumerically("~", 308.4, 1e-12))
		Expect(b.Vel.Y).To(BeNumerically("~", 8.9, 1e-12))
	})

	It("detects a downward crossing", func() {
		Expect((&water.Body{Pos: r2.Vec{Y: 235}, Vel: r2.Vec{Y: 5}}).Crosses(240)).To(BeTrue())
		Expect((&water.Body{Pos: r2.Vec{Y: 230}, Vel: r2.Vec{Y: 5}}).Crosses(240)).To(BeFalse())
		Expect((&water.Body{Pos: r2.Vec{Y: 245}, Vel: r2.Vec{Y: -10}}).Crosses(240)).To(BeFalse())
	})
})

var _ = Describe("Scene", func() {
	var s *water.Scene

	BeforeEach(func() {
		var err error
		s, err = water.NewScene(water.DefaultSceneOptions())
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects a non-positive height", func() {
		opts := water.DefaultSceneOptions()
		opts.Height = 0
		_, err := water.NewScene(opts)
		Expect(err).To(MatchError(water.ErrInvalidDimension))
	})

	It("splashes once, sinks without bouncing and is removed below the viewport", func() {
		s.Drop(r2.Vec{X: 400, Y: 100}, r2.Vec{})

		for i := 0; i < 2000 && len(s.Bodies()) > 0; i++ {
			Expect(s.Step(1.0 / 60)).To(Succeed())
			for _, b := range s.Bodies() {
				Expect(b.Vel.Y).To(BeNumerically(">", 0))
			}
		}

		Expect(s.Bodies()).To(BeEmpty())
		Expect(s.Splashes()).To(Equal(1))
		Expect(s.Field().Heights()).To(ContainElement(Not(BeZero())))
		Expect(s.State().IsValid()).To(BeTrue())
	})

	It("throws with a scaled pointer velocity", func() {
		s.Throw(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 110, Y: 120})
		bodies := s.Bodies()
		Expect(bodies).To(HaveLen(1))
		Expect(bodies[0].Pos).To(Equal(r2.Vec{X: 110, Y: 120}))
		Expect(bodies[0].Vel.X).To(BeNumerically("~", 2, 1e-12))
		Expect(bodies[0].Vel.Y).To(BeNumerically("~", 4, 1e-12))
	})

	It("does not splash for a body released underwater", func() {
		s.Drop(r2.Vec{X: 400, Y: 300}, r2.Vec{})
		for range 10 {
			Expect(s.Step(1.0 / 60)).To(Succeed())
		}
		Expect(s.Splashes()).To(BeZero())
	})

	It("resets to a flat, empty scene", func() {
		s.Drop(r2.Vec{X: 400, Y: 100}, r2.Vec{Y: 20})
		s.Field().SetSpread(0.5)
		for range 30 {
			Expect(s.Step(1.0 / 60)).To(Succeed())
		}
		s.Reset()
		Expect(s.Bodies()).To(BeEmpty())
		Expect(s.Field().Heights()).To(HaveEach(0.0))
		Expect(s.Field().Spread()).To(Equal(water.DefaultSpread))
	})
})
