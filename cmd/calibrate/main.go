// Command calibrate runs hand-eye extrinsic calibration against a JSON-encoded dataset
// and configuration file, per §6's batch CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/calib/initializer"
	"github.com/fenwick-robotics/handeye-calib/calib/odometry"
	"github.com/fenwick-robotics/handeye-calib/calib/optimize"
	"github.com/fenwick-robotics/handeye-calib/calibconfig"
	"github.com/fenwick-robotics/handeye-calib/logging"
	"github.com/fenwick-robotics/handeye-calib/rimage/transform"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

func main() {
	configPath := flag.String("config", "", "path to calibration config JSON")
	datasetPath := flag.String("dataset", "", "path to dataset JSON")
	mode := flag.String("mode", "marker", "optimizer variant: marker or visual")
	flag.Parse()

	logger := logging.NewLogger("calibrate")

	if *configPath == "" || *datasetPath == "" {
		fmt.Fprintln(os.Stderr, "usage: calibrate -config=<path> -dataset=<path> [-mode=marker|visual]")
		os.Exit(2)
	}

	extrinsic, err := calibrate(context.Background(), *configPath, *datasetPath, *mode, logger)
	if err != nil {
		logger.Errorw("calibration failed", "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(extrinsicResult(extrinsic), "", "  ")
	if err != nil {
		logger.Errorw("failed to encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

type extrinsicResultJSON struct {
	RVec [3]float64 `json:"rvec_bc"`
	TVec [3]float64 `json:"tvec_bc"`
}

func extrinsicResult(e spatialmath.SE3) extrinsicResultJSON {
	rvec := e.RVec()
	return extrinsicResultJSON{
		RVec: [3]float64{rvec.X, rvec.Y, rvec.Z},
		TVec: [3]float64{e.Translation.X, e.Translation.Y, e.Translation.Z},
	}
}

// calibrate loads config and dataset, runs the odometry builder and closed-form
// initializer, then refines the result with the requested joint-optimizer variant.
func calibrate(ctx context.Context, configPath, datasetPath, mode string, logger logging.Logger) (spatialmath.SE3, error) {
	cfg, err := calibconfig.LoadFromJSONFile(configPath)
	if err != nil {
		return spatialmath.SE3{}, err
	}

	intrinsics, err := transform.NewPinholeCameraIntrinsicsFromJSONFile(cfg.IntrinsicsPath)
	if err != nil {
		return spatialmath.SE3{}, err
	}

	d, err := calib.LoadDatasetFromJSONFile(datasetPath)
	if err != nil {
		return spatialmath.SE3{}, err
	}

	odometry.Build(d, cfg.Odometry)
	logger.Infow("built odometry edges", "count", len(d.OdometryEdges()))

	initResult, err := (initializer.MarkerInitializer{
		Config: initializer.Config{SmallRotationRatioThreshold: cfg.SmallRotationRatioThreshold},
	}).Calibrate(ctx, d)
	if err != nil {
		return spatialmath.SE3{}, err
	}
	logger.Infow("closed-form initializer converged", "extrinsic", initResult)

	switch mode {
	case "visual":
		var distortion transform.Distorter
		if len(cfg.DistortionParameters) > 0 {
			distortion, err = transform.NewInverseBrownConrady(cfg.DistortionParameters)
			if err != nil {
				return spatialmath.SE3{}, err
			}
		}
		return (optimize.VisualOptimizer{
			Config: optimize.VisualConfig{
				InitialExtrinsic:   initResult,
				Intrinsics:         intrinsics,
				MaxIterations:      cfg.MaxIterVisual,
				MinParallaxRadians: 0,
				Logger:             logger.Sublogger("optimize.visual"),
				FilterConfig:       cfg.VisualFilter,
				Distortion:         distortion,
			},
		}).Calibrate(ctx, d)
	default:
		return (optimize.MarkerOptimizer{
			Config: optimize.MarkerConfig{
				InitialExtrinsic: initResult,
				MaxIterations:    cfg.MaxIterMarker,
				Logger:           logger.Sublogger("optimize.marker"),
			},
		}).Calibrate(ctx, d)
	}
}
