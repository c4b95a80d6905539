package demo_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/scenesim/internal/config"
	"github.com/san-kum/scenesim/internal/demo"
	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/reactor"
	"github.com/san-kum/scenesim/internal/scene"
	"github.com/san-kum/scenesim/internal/trigger"
)

var _ = Describe("tap to explode", func() {
	var (
		d   *demo.Demo
		cfg *config.Config
		h   scene.Handles
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		var err error
		d, err = demo.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		h = d.Handles()
	})

	It("starts with six attached nodes and an inert field", func() {
		Expect(d.Graph().Count()).To(Equal(6))
		Expect(d.Field().Strength).To(BeZero())
		Expect(d.TriggerState()).To(Equal(trigger.Armed))
	})

	When("the button is tapped", func() {
		BeforeEach(func() {
			Expect(d.TapNode(h.Button).Triggered).To(BeTrue())
		})

		It("sets the field strength immediately", func() {
			Expect(d.Field().Strength).To(Equal(cfg.Field.TriggerStrength))
			Expect(d.TriggerState()).To(Equal(trigger.Triggered))
		})

		It("presses and highlights the button over half a second", func() {
			btn := d.Graph().Node(h.Button)
			for range 31 {
				Expect(d.Step(1.0 / 60)).To(Succeed())
			}
			Expect(btn.Transform.Position.Y()).To(BeNumerically("~", 0.5-0.8, 1e-9))
			Expect(btn.Material.Diffuse).To(Equal(dynamo.White))
			Expect(d.Animating()).To(BeFalse())
		})

		It("ignores later taps", func() {
			Expect(d.TapNode(h.Button).Triggered).To(BeFalse())
			Expect(d.Field().Strength).To(Equal(cfg.Field.TriggerStrength))
		})

		It("pulls sphere two into sphere one and replaces both with an effect", func() {
			for i := 0; i < 60*15 && !d.Collided(); i++ {
				Expect(d.Step(cfg.Physics.Dt)).To(Succeed())
			}
			Expect(d.Collided()).To(BeTrue())

			graph := d.Graph()
			Expect(graph.Attached(h.Sphere1)).To(BeFalse())
			Expect(graph.Attached(h.Sphere2)).To(BeFalse())
			Expect(graph.Count()).To(Equal(5))

			fx := d.EffectNodes()
			Expect(fx).To(HaveLen(1))
			Expect(graph.Node(fx[0]).Name).To(Equal(reactor.EffectNodeName))
			Expect(graph.Node(fx[0]).Particles.Name()).To(Equal("Explosion"))
			Expect(graph.WorldPosition(fx[0])).To(Equal(cfg.Spheres.First))

			By("removing the spheres again being a no-op")
			graph.Remove(h.Sphere1)
			graph.Remove(h.Sphere2)
			Expect(graph.Count()).To(Equal(5))
		})
	})

	When("nothing is tapped", func() {
		It("leaves both spheres in place", func() {
			for range 600 {
				Expect(d.Step(cfg.Physics.Dt)).To(Succeed())
			}
			Expect(d.Graph().Count()).To(Equal(6))
			Expect(d.Graph().WorldPosition(h.Sphere2).X()).To(BeNumerically("~", 15, 1e-9))
		})
	})
})
