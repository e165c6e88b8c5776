package water_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springlab/internal/water"
)

var _ = Describe("Field", func() {
	var f *water.Field

	BeforeEach(func() {
		var err error
		f, err = water.NewField(41, 400, 240)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects degenerate fields", func() {
		_, err := water.NewField(1, 400, 0)
		Expect(err).To(MatchError(water.ErrTooFewColumns))
		_, err = water.NewField(10, 0, 0)
		Expect(err).To(MatchError(water.ErrInvalidDimension))
	})

	It("starts with the default knobs", func() {
		Expect(f.Tension()).To(Equal(water.DefaultTension))
		Expect(f.Dampening()).To(Equal(water.DefaultDampening))
		Expect(f.Spread()).To(Equal(water.DefaultSpread))
	})

	It("stays flat without a disturbance", func() {
		for range 100 {
			Expect(f.Step(1.0 / 60)).To(Succeed())
		}
		Expect(f.Heights()).To(HaveEach(0.0))
	})

	Describe("knob clamping", func() {
		DescribeTable("clamps to the nearest bound and is idempotent",
			func(set func(float64), get func() float64, v, want float64) {
				set(v)
				Expect(get()).To(Equal(want))
				set(v)
				Expect(get()).To(Equal(want))
			},
			Entry("tension high", func(v float64) { f.SetTension(v) }, func() float64 { return f.Tension() }, 9.0, water.MaxTension),
			Entry("tension low", func(v float64) { f.SetTension(v) }, func() float64 { return f.Tension() }, -1.0, water.MinTension),
			Entry("dampening high", func(v float64) { f.SetDampening(v) }, func() float64 { return f.Dampening() }, 0.2, water.MaxDampening),
			Entry("dampening low", func(v float64) { f.SetDampening(v) }, func() float64 { return f.Dampening() }, 0.0, water.MinDampening),
			Entry("spread high", func(v float64) { f.SetSpread(v) }, func() float64 { return f.Spread() }, 1.0, water.MaxSpread),
			Entry("spread low", func(v float64) { f.SetSpread(v) }, func() float64 { return f.Spread() }, 0.001, water.MinSpread),
		)

		It("ignores NaN", func() {
			f.SetTension(math.NaN())
			Expect(f.Tension()).To(Equal(water.DefaultTension))
		})

		It("tunes by a factor within bounds", func() {
			for range 1000 {
				f.Tune(water.Spread, 1/water.TuneFactor)
			}
			Expect(f.Spread()).To(Equal(water.MaxSpread))
			f.Tune(water.Tension, water.TuneFactor)
			Expect(f.Tension()).To(BeNumerically("~", water.DefaultTension*water.TuneFactor, 1e-15))

			f.ResetKnobs()
			Expect(f.Spread()).To(Equal(water.DefaultSpread))
			Expect(f.Tension()).To(Equal(water.DefaultTension))
		})
	})

	Describe("splash", func() {
		It("adds to the nearest column velocity", func() {
			f.Splash(203, 4)
			f.Splash(197, 1)
			Expect(f.Speeds()[20]).To(Equal(5.0))
		})

		It("clamps positions outside the field to the edge columns", func() {
			f.Splash(-50, 1)
			f.Splash(1e6, 2)
			speeds := f.Speeds()
			Expect(speeds[0]).To(Equal(1.0))
			Expect(speeds[40]).To(Equal(2.0))
		})

		It("sends far-off finite positions to the nearest edge", func() {
			f.Splash(1e300, 3)
			f.Splash(-1e300, 1)
			speeds := f.Speeds()
			Expect(speeds[40]).To(Equal(3.0))
			Expect(speeds[0]).To(Equal(1.0))
			Expect(f.Column(math.MaxFloat64)).To(Equal(40))
		})

		It("ignores non-finite speeds and positions", func() {
			f.Splash(200, math.Inf(1))
			f.Splash(200, math.NaN())
			f.Splash(math.Inf(1), 3)
			f.Splash(math.Inf(-1), 3)
			Expect(f.Speeds()).To(HaveEach(0.0))
		})

		It("spreads symmetrically from the centre", func() {
			f.Splash(200, 10)
			for step := range 200 {
				Expect(f.Step(1.0 / 60)).To(Succeed())
				h := f.Heights()
				for k := 1; k <= 20; k++ {
					Expect(h[20-k]).To(BeNumerically("~", h[20+k], 1e-12), "step %d offset %d", step, k)
				}
			}
		})

		It("dies down under dampening", func() {
			f.Splash(200, 10)
			Expect(f.Step(1.0 / 60)).To(Succeed())
			start := f.Energy()
			for range 600 {
				Expect(f.Step(1.0 / 60)).To(Succeed())
			}
			Expect(f.Energy()).To(BeNumerically("<", start/100))
			Expect(f.State().IsValid()).To(BeTrue())
		})
	})

	Describe("HeightAt", func() {
		BeforeEach(func() {
			f.Splash(200, 10)
			Expect(f.Step(1.0 / 60)).To(Succeed())
		})

		It("matches column heights at column positions", func() {
			h := f.Heights()
			Expect(f.HeightAt(f.ColumnX(20))).To(Equal(h[20]))
			Expect(f.HeightAt(f.ColumnX(40))).To(Equal(h[40]))
		})

		It("interpolates between columns", func() {
			h := f.Heights()
			Expect(f.HeightAt(205)).To(BeNumerically("~", (h[20]+h[21])/2, 1e-12))
		})

		It("is zero outside the field", func() {
			Expect(f.HeightAt(-1)).To(BeZero())
			Expect(f.HeightAt(401)).To(BeZero())
			Expect(f.SurfaceAt(-1)).To(Equal(240.0))
		})

		It("offsets the surface by the level", func() {
			Expect(f.SurfaceAt(200)).To(Equal(240 + f.HeightAt(200)))
		})
	})
})
