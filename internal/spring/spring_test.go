package spring_test

import (
	"gonum.org/v1/gonum/spatial/r2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springlab/internal/spring"
)

// frozen leaves every node untouched so accumulated accelerations can be inspected.
type frozen struct{}

func (frozen) Advance(pos, vel, acc *r2.Vec) {}

func node(net *spring.Network, x, y, m float64) spring.NodeID {
	id, err := net.AddNode(r2.Vec{X: x, Y: y}, m)
	Expect(err).NotTo(HaveOccurred())
	return id
}

func mustNode(net *spring.Network, id spring.NodeID) *spring.Node {
	n, ok := net.Node(id)
	Expect(ok).To(BeTrue())
	return n
}

var _ = Describe("Spring force", func() {
	var a, b *spring.Node
	var s *spring.Spring

	BeforeEach(func() {
		net := spring.NewNetwork()
		ia, ib := node(net, 10, 20, 1), node(net, 47, -5, 2)
		Expect(net.Apply()).To(Succeed())
		a, b = mustNode(net, ia), mustNode(net, ib)
		a.Vel = r2.Vec{X: 0.7, Y: -1.3}
		b.Vel = r2.Vec{X: -0.2, Y: 0.4}
		s = &spring.Spring{A: ia, B: ib, Rest: 30, Stiffness: -3, Damping: 0.03}
	})

	It("is equal and opposite for the two endpoints", func() {
		fa, ok := s.Force(a, b)
		Expect(ok).To(BeTrue())
		fb, ok := s.Force(b, a)
		Expect(ok).To(BeTrue())
		Expect(fb).To(Equal(r2.Scale(-1, fa)))
	})

	It("pulls the endpoints together when stretched", func() {
		fa, _ := s.Force(a, b)
		Expect(r2.Dot(fa, r2.Sub(b.Pos, a.Pos))).To(BeNumerically(">", 0))
	})

	It("scales the restoring term by the current length", func() {
		s.Damping = 0
		length := r2.Norm(r2.Sub(b.Pos, a.Pos))
		fa, _ := s.Force(a, b)
		Expect(r2.Norm(fa)).To(BeNumerically("~", 3*(length-30)/length, 1e-12))
	})

	It("pushes the endpoints apart when compressed", func() {
		s.Rest = 200
		s.Damping = 0
		fa, _ := s.Force(a, b)
		Expect(r2.Dot(fa, r2.Sub(b.Pos, a.Pos))).To(BeNumerically("<", 0))
	})

	Context("in string mode", func() {
		BeforeEach(func() { s.StringMode = true })

		It("applies nothing when compressed", func() {
			s.Rest = 200
			f, ok := s.Force(a, b)
			Expect(ok).To(BeFalse())
			Expect(f).To(Equal(r2.Vec{}))
		})

		It("behaves like a spring when stretched", func() {
			asString, ok := s.Force(a, b)
			Expect(ok).To(BeTrue())
			s.StringMode = false
			asSpring, _ := s.Force(a, b)
			Expect(asString).To(Equal(asSpring))
		})
	})

	It("reports coincident endpoints as no force", func() {
		b.Pos = a.Pos
		_, ok := s.Force(a, b)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Node", func() {
	It("ignores non-positive mass", func() {
		net := spring.NewNetwork()
		id := node(net, 0, 0, 4)
		Expect(net.Apply()).To(Succeed())
		n := mustNode(net, id)

		n.SetMass(0)
		Expect(n.Mass()).To(Equal(4.0))
		n.SetMass(-2)
		Expect(n.Mass()).To(Equal(4.0))
		n.SetMass(7)
		Expect(n.Mass()).To(Equal(7.0))
	})
})
