package demo_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDemoScenario(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Demo Scenario Suite")
}
