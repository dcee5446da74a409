package collectors

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"gitlab.com/tinyland/lab/coraldeck/agent"
	"gitlab.com/tinyland/lab/coraldeck/protocol"
)

// fallbackSlowdownTemp is used as the GPU graph ceiling when the
// driver does not expose the slowdown threshold.
const fallbackSlowdownTemp = 93

// GPU collects utilization and temperature from the first NVIDIA
// device through NVML. On machines without a working driver the
// collectors report agent.ErrNotImplemented instead of failing the
// whole iteration.
type GPU struct {
	device   nvml.Device
	slowdown float64
	ok       bool
}

// NewGPU initializes NVML and grabs device 0. Initialization failure
// is not an error: it yields a GPU whose collectors are skipped.
func NewGPU(logger *slog.Logger) *GPU {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	g := &GPU{slowdown: fallbackSlowdownTemp}

	if ret := nvml.Init(); ret != nvml.SUCCESS {
		logger.Info("nvml unavailable, gpu metrics disabled",
			slog.String("reason", nvml.ErrorString(ret)))
		return g
	}

	device, ret := nvml.DeviceGetHandleByIndex(0)
	if ret != nvml.SUCCESS {
		logger.Info("no nvidia device found, gpu metrics disabled",
			slog.String("reason", nvml.ErrorString(ret)))
		return g
	}
	g.device = device
	g.ok = true

	// The slowdown threshold is where the card starts throttling,
	// which makes it the natural ceiling for the temperature graph.
	if threshold, ret := device.GetTemperatureThreshold(nvml.TEMPERATURE_THRESHOLD_SLOWDOWN); ret == nvml.SUCCESS {
		g.slowdown = float64(threshold)
	}
	return g
}

// Available reports whether a device was found during NewGPU.
func (g *GPU) Available() bool { return g.ok }

// Close shuts NVML down. Safe to call when initialization failed.
func (g *GPU) Close() {
	if g.ok {
		nvml.Shutdown()
	}
}

// Load reports GPU utilization as a percentage.
func (g *GPU) Load(ctx context.Context) (protocol.Reading, error) {
	if !g.ok {
		return protocol.Reading{}, agent.ErrNotImplemented
	}
	util, ret := g.device.GetUtilizationRates()
	if ret != nvml.SUCCESS {
		return protocol.Reading{}, fmt.Errorf("gpu load: %s", nvml.ErrorString(ret))
	}
	return protocol.Measure(float64(util.Gpu), 100), nil
}

// Temperature reports the die temperature in °C against the slowdown
// threshold.
func (g *GPU) Temperature(ctx context.Context) (protocol.Reading, error) {
	if !g.ok {
		return protocol.Reading{}, agent.ErrNotImplemented
	}
	temp, ret := g.device.GetTemperature(nvml.TEMPERATURE_GPU)
	if ret != nvml.SUCCESS {
		return protocol.Reading{}, fmt.Errorf("gpu temperature: %s", nvml.ErrorString(ret))
	}
	return protocol.Measure(float64(temp), g.slowdown), nil
}
