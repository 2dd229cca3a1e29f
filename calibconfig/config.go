// Package calibconfig loads the on-disk JSON configuration for a calibration run (§6),
// following the teacher's NewPinholeCameraIntrinsicsFromJSONFile load-and-validate pattern.
package calibconfig

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/fenwick-robotics/handeye-calib/calib/odometry"
	"github.com/fenwick-robotics/handeye-calib/calib/visualfilter"
)

// Config collects every tunable named in §6, loaded once per run from a JSON file.
type Config struct {
	Odometry odometry.NoiseModel `json:"odometry_noise"`

	AmkXYErrRatioZ float64 `json:"amk_xy_err_ratio_z"`
	AmkXYErrMin    float64 `json:"amk_xy_err_min"`
	AmkZErrRatioZ  float64 `json:"amk_z_err_ratio_z"`
	AmkZErrMin     float64 `json:"amk_z_err_min"`

	InitialRVecBC [3]float64 `json:"initial_rvec_bc"`
	InitialTVecBC [3]float64 `json:"initial_tvec_bc"`

	SmallRotationRatioThreshold float64 `json:"small_rotation_ratio_threshold"`

	VisualFilter visualfilter.Config `json:"visual_filter"`

	MaxIterMarker int `json:"max_iter_marker"`
	MaxIterVisual int `json:"max_iter_visual"`

	IntrinsicsPath string `json:"intrinsics_path"`

	// DistortionParameters are the InverseBrownConrady coefficients (rk1, rk2, rk3, tp1,
	// tp2, in that order) applied to every visual-SLAM pixel before it reaches the match
	// filter or reprojection residual. Empty means the camera's images are already
	// undistorted.
	DistortionParameters []float64 `json:"distortion_parameters"`
}

// Default returns the §6 defaults (odometry noise left zeroed — callers must supply it;
// there is no sane system-wide default for a specific robot's drift characteristics).
func Default() Config {
	return Config{
		AmkXYErrRatioZ:              0.01,
		AmkXYErrMin:                 0.002,
		AmkZErrRatioZ:               0.02,
		AmkZErrMin:                  0.005,
		SmallRotationRatioThreshold: 1.0 / 5000,
		VisualFilter:                visualfilter.DefaultConfig(),
		MaxIterMarker:               100,
		MaxIterVisual:               15,
	}
}

// LoadFromJSONFile reads and validates a Config from jsonPath, applying §6 defaults for
// any field the file omits.
func LoadFromJSONFile(jsonPath string) (Config, error) {
	//nolint:gosec
	f, err := os.Open(jsonPath)
	if err != nil {
		return Config{}, errors.Wrap(err, "error opening calibration config JSON file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Config{}, errors.Wrap(err, "error reading calibration config JSON data")
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "error parsing calibration config JSON")
	}

	if err := cfg.CheckValid(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// CheckValid validates the loaded configuration, mirroring
// PinholeCameraIntrinsics.CheckValid's structure: it returns a plain error naming the first
// bad field it finds.
func (c Config) CheckValid() error {
	if c.IntrinsicsPath == "" {
		return errors.New("calibration config: intrinsics_path is required")
	}
	if c.SmallRotationRatioThreshold <= 0 {
		return errors.New("calibration config: small_rotation_ratio_threshold must be positive")
	}
	if c.MaxIterMarker <= 0 || c.MaxIterVisual <= 0 {
		return errors.New("calibration config: max_iter_marker and max_iter_visual must be positive")
	}
	if c.VisualFilter.MinMatches <= 0 {
		return errors.New("calibration config: visual_filter.min_matches must be positive")
	}
	return nil
}
