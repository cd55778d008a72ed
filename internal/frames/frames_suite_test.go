package frames_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFrames(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Frames Suite")
}
