package calibconfig

import (
	"testing"

	"go.viam.com/test"
)

func TestCheckValidRejectsMissingIntrinsicsPath(t *testing.T) {
	t.Parallel()
	cfg := Default()
	err := cfg.CheckValid()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCheckValidAcceptsDefaultsWithIntrinsicsPath(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.IntrinsicsPath = "intrinsics.json"
	test.That(t, cfg.CheckValid(), test.ShouldBeNil)
}

func TestCheckValidRejectsNonPositiveThreshold(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.IntrinsicsPath = "intrinsics.json"
	cfg.SmallRotationRatioThreshold = 0
	test.That(t, cfg.CheckValid(), test.ShouldNotBeNil)
}
