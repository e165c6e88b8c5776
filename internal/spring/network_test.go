package spring_test

import (
	"gonum.org/v1/gonum/spatial/r2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springlab/internal/spring"
)

var _ = Describe("Network", func() {
	var net *spring.Network

	BeforeEach(func() {
		net = spring.NewNetwork()
	})

	Describe("building", func() {
		It("rejects non-positive mass", func() {
			_, err := net.AddNode(r2.Vec{}, 0)
			Expect(err).To(MatchError(spring.ErrInvalidMass))
			_, err = net.AddNode(r2.Vec{}, -1)
			Expect(err).To(MatchError(spring.ErrInvalidMass))
		})

		It("rejects a spring from a node to itself", func() {
			a := node(net, 0, 0, 1)
			Expect(net.AddSpring(a, a, spring.DefaultSpringOptions())).To(MatchError(spring.ErrSameEndpoint))
		})

		It("defaults the rest length to the current distance", func() {
			a, b := node(net, 0, 0, 1), node(net, 30, 40, 1)
			Expect(net.AddSpring(a, b, spring.DefaultSpringOptions())).To(Succeed())
			Expect(net.Apply()).To(Succeed())
			Expect(net.Springs()[0].Rest).To(Equal(50.0))
		})

		It("rejects a spring between coincident nodes without a rest length", func() {
			a, b := node(net, 5, 5, 1), node(net, 5, 5, 1)
			Expect(net.AddSpring(a, b, spring.DefaultSpringOptions())).To(Succeed())
			Expect(net.Apply()).To(MatchError(spring.ErrInvalidRestLength))
			Expect(net.SpringCount()).To(BeZero())
		})

		It("reports springs to unknown nodes and keeps the valid edits", func() {
			a, b := node(net, 0, 0, 1), node(net, 10, 0, 1)
			Expect(net.AddSpring(a, 999, spring.DefaultSpringOptions())).To(Succeed())
			Expect(net.AddSpring(a, b, spring.DefaultSpringOptions())).To(Succeed())
			Expect(net.Apply()).To(MatchError(spring.ErrUnknownNode))
			Expect(net.NodeCount()).To(Equal(2))
			Expect(net.SpringCount()).To(Equal(1))
		})

		It("keeps insertion order", func() {
			ids := []spring.NodeID{node(net, 0, 0, 1), node(net, 1, 0, 1), node(net, 2, 0, 1)}
			Expect(net.Apply()).To(Succeed())
			for i, n := range net.Nodes() {
				Expect(n.ID).To(Equal(ids[i]))
			}
		})
	})

	Describe("removing a node", func() {
		It("removes every spring that references it", func() {
			a, b, c := node(net, 0, 0, 1), node(net, 10, 0, 1), node(net, 20, 0, 1)
			Expect(net.AddSpring(a, b, spring.DefaultSpringOptions())).To(Succeed())
			Expect(net.AddSpring(c, b, spring.DefaultSpringOptions())).To(Succeed())
			Expect(net.AddSpring(a, c, spring.DefaultSpringOptions())).To(Succeed())
			Expect(net.Apply()).To(Succeed())

			net.RemoveNode(b)
			Expect(net.Apply()).To(Succeed())

			Expect(net.NodeCount()).To(Equal(2))
			Expect(net.Springs()).To(HaveLen(1))
			for _, s := range net.Springs() {
				Expect(s.A).NotTo(Equal(b))
				Expect(s.B).NotTo(Equal(b))
			}
			_, ok := net.Node(b)
			Expect(ok).To(BeFalse())
		})

		It("keeps the remaining nodes addressable", func() {
			a, b, c := node(net, 0, 0, 1), node(net, 10, 0, 1), node(net, 20, 0, 1)
			Expect(net.Apply()).To(Succeed())
			net.RemoveNode(a)
			Expect(net.Apply()).To(Succeed())

			Expect(mustNode(net, b).Pos.X).To(Equal(10.0))
			Expect(mustNode(net, c).Pos.X).To(Equal(20.0))
		})

		It("reports unknown nodes", func() {
			net.RemoveNode(42)
			Expect(net.Apply()).To(MatchError(spring.ErrUnknownNode))
		})
	})

	Describe("stepping", func() {
		It("leaves a spring at rest length at rest", func() {
			a, b := node(net, 100, 100, 1), node(net, 150, 100, 1)
			Expect(net.AddSpring(a, b, spring.SpringOptions{Rest: 50, Stiffness: -3, Damping: 0.03})).To(Succeed())
			Expect(net.Apply()).To(Succeed())

			for i := 0; i < 1000; i++ {
				Expect(net.Step(1.0 / 60)).To(Succeed())
			}

			Expect(mustNode(net, a).Pos).To(Equal(r2.Vec{X: 100, Y: 100}))
			Expect(mustNode(net, b).Pos).To(Equal(r2.Vec{X: 150, Y: 100}))
		})

		It("applies equal and opposite accelerations to equal masses", func() {
			net.SetIntegrator(frozen{})
			a, b := node(net, 3, 7, 2), node(net, 61, -19, 2)
			Expect(net.AddSpring(a, b, spring.SpringOptions{Rest: 20, Stiffness: -1.5, Damping: 0.03})).To(Succeed())
			Expect(net.Apply()).To(Succeed())
			mustNode(net, a).Vel = r2.Vec{X: 1, Y: 2}

			Expect(net.Step(1)).To(Succeed())

			accA, accB := mustNode(net, a).Acc, mustNode(net, b).Acc
			Expect(accA).NotTo(Equal(r2.Vec{}))
			Expect(accB).To(Equal(r2.Scale(-1, accA)))
		})

		It("does not touch accelerations when endpoints coincide", func() {
			net.SetIntegrator(frozen{})
			a, b := node(net, 0, 0, 1), node(net, 10, 0, 1)
			Expect(net.AddSpring(a, b, spring.SpringOptions{Rest: 10, Stiffness: -3})).To(Succeed())
			Expect(net.Apply()).To(Succeed())

			na, nb := mustNode(net, a), mustNode(net, b)
			nb.Pos = na.Pos
			na.Acc = r2.Vec{X: 1, Y: 2}
			nb.Acc = r2.Vec{X: -3, Y: 4}

			Expect(net.Step(1)).To(Succeed())

			Expect(na.Acc).To(Equal(r2.Vec{X: 1, Y: 2}))
			Expect(nb.Acc).To(Equal(r2.Vec{X: -3, Y: 4}))
		})

		It("applies queued edits after forces are accumulated", func() {
			net.SetIntegrator(frozen{})
			a, b := node(net, 0, 0, 1), node(net, 100, 0, 1)
			Expect(net.Apply()).To(Succeed())

			Expect(net.AddSpring(a, b, spring.SpringOptions{Rest: 50, Stiffness: -3})).To(Succeed())
			Expect(net.Step(1)).To(Succeed())
			Expect(net.SpringCount()).To(Equal(1))
			Expect(mustNode(net, a).Acc).To(Equal(r2.Vec{}))

			Expect(net.Step(1)).To(Succeed())
			Expect(mustNode(net, a).Acc.X).To(BeNumerically(">", 0))
		})

		It("integrates every node from the same snapshot", func() {
			chain := func() []r2.Vec {
				n := spring.NewNetwork()
				ids := []spring.NodeID{node(n, 0, 0, 1), node(n, 60, 0, 1), node(n, 100, 30, 1)}
				Expect(n.AddSpring(ids[0], ids[1], spring.SpringOptions{Rest: 40, Stiffness: -2})).To(Succeed())
				Expect(n.AddSpring(ids[1], ids[2], spring.SpringOptions{Rest: 40, Stiffness: -2})).To(Succeed())
				Expect(n.Apply()).To(Succeed())
				Expect(n.Step(1)).To(Succeed())
				var out []r2.Vec
				for _, nd := range n.Nodes() {
					out = append(out, nd.Pos)
				}
				return out
			}
			reversed := func() []r2.Vec {
				n := spring.NewNetwork()
				ids := []spring.NodeID{node(n, 0, 0, 1), node(n, 60, 0, 1), node(n, 100, 30, 1)}
				Expect(n.AddSpring(ids[1], ids[2], spring.SpringOptions{Rest: 40, Stiffness: -2})).To(Succeed())
				Expect(n.AddSpring(ids[0], ids[1], spring.SpringOptions{Rest: 40, Stiffness: -2})).To(Succeed())
				Expect(n.Apply()).To(Succeed())
				Expect(n.Step(1)).To(Succeed())
				var out []r2.Vec
				for _, nd := range n.Nodes() {
					out = append(out, nd.Pos)
				}
				return out
			}
			got, want := reversed(), chain()
			for i := range want {
				Expect(got[i].X).To(BeNumerically("~", want[i].X, 1e-12))
				Expect(got[i].Y).To(BeNumerically("~", want[i].Y, 1e-12))
			}
		})
	})

	Describe("holding a node", func() {
		It("pins it against spring forces", func() {
			a, b := node(net, 0, 0, 1), node(net, 100, 0, 1)
			Expect(net.AddSpring(a, b, spring.SpringOptions{Rest: 50, Stiffness: -3})).To(Succeed())
			Expect(net.Apply()).To(Succeed())

			Expect(net.Hold(a, r2.Vec{X: -10, Y: 5})).To(BeTrue())
			for i := 0; i < 10; i++ {
				Expect(net.Step(1)).To(Succeed())
			}
			na := mustNode(net, a)
			Expect(na.Pos).To(Equal(r2.Vec{X: -10, Y: 5}))
			Expect(na.Vel).To(Equal(r2.Vec{}))
			Expect(na.Acc).To(Equal(r2.Vec{}))

			net.Release(a)
			Expect(net.Step(1)).To(Succeed())
			Expect(na.Pos).NotTo(Equal(r2.Vec{X: -10, Y: 5}))
		})

		It("refuses unknown nodes", func() {
			Expect(net.Hold(7, r2.Vec{})).To(BeFalse())
		})
	})

	Describe("global edits", func() {
		BeforeEach(func() {
			a, b, c := node(net, 0, 0, 1), node(net, 10, 0, 1), node(net, 0, 10, 1)
			Expect(net.AddSpring(a, b, spring.DefaultSpringOptions())).To(Succeed())
			Expect(net.AddSpring(b, c, spring.DefaultSpringOptions())).To(Succeed())
			Expect(net.Apply()).To(Succeed())
		})

		It("propagates stiffness to every spring", func() {
			net.SetStiffness(-0.5)
			for _, s := range net.Springs() {
				Expect(s.Stiffness).To(Equal(-0.5))
			}
		})

		It("sets string mode on every spring", func() {
			net.SetStringMode(true)
			for _, s := range net.Springs() {
				Expect(s.StringMode).To(BeTrue())
			}
		})
	})

	It("exposes a snapshot with resolved link indices", func() {
		a, b := node(net, 0, 0, 1), node(net, 40, 0, 3)
		Expect(net.AddSpring(b, a, spring.SpringOptions{Rest: 20, Stiffness: -1})).To(Succeed())
		Expect(net.Apply()).To(Succeed())

		snap := net.Snapshot()
		Expect(snap.Points).To(HaveLen(2))
		Expect(snap.Masses).To(Equal([]float64{1, 3}))
		Expect(snap.Links).To(ConsistOf(spring.Link{From: 1, To: 0, Extension: 2}))
	})
})
