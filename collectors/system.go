// Package collectors gathers hardware readings for the agent. Metrics
// that have no sensor on the current machine report
// agent.ErrNotImplemented so the sampling loop can skip them.
package collectors

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"

	"gitlab.com/tinyland/lab/coraldeck/agent"
	"gitlab.com/tinyland/lab/coraldeck/protocol"
)

const (
	mb = 1 << 20
	gb = 1 << 30

	// linkCapacityMbps is the nominal capacity of a gigabit link,
	// used as the graph ceiling for both directions.
	linkCapacityMbps = 1000.0
)

// Sensor name fragments used to pick CPU temperature readings out of
// the host sensor list. Covers Intel coretemp, AMD k10temp/zenpower
// and generic ACPI thermal zones.
var cpuSensorKeys = []string{
	"coretemp", "k10temp", "zenpower", "tctl", "tdie", "acpitz", "cpu",
}

// Coolant sensors are exposed by liquid cooler drivers under hwmon.
var coolantSensorKeys = []string{
	"coolant", "liquid", "t_sensor", "water",
}

// SystemOptions configures the host-level collectors.
type SystemOptions struct {
	// Interface restricts network rates to one NIC. Empty means the
	// aggregate of all interfaces.
	Interface string

	// PathOS and PathApps are the mount points reported by the two
	// disk bars.
	PathOS   string
	PathApps string
}

// System collects host metrics through gopsutil. Network collectors
// keep the previous counter sample to turn totals into rates, so a
// System must not be shared between concurrent samplers.
type System struct {
	opts SystemOptions

	prevNet        *netSample
	lastRx, lastTx float64
	counters       func(ctx context.Context, pernic bool) ([]gnet.IOCountersStat, error)
	sensors        func(ctx context.Context) ([]host.TemperatureStat, error)
	now            func() time.Time
}

type netSample struct {
	at   time.Time
	recv uint64
	sent uint64
}

// NewSystem builds a System collector set. Zero-value options fall
// back to the root filesystem for both disks and all interfaces
// aggregated.
func NewSystem(opts SystemOptions) *System {
	if opts.PathOS == "" {
		opts.PathOS = "/"
	}
	if opts.PathApps == "" {
		opts.PathApps = "/"
	}
	return &System{
		opts:     opts,
		counters: gnet.IOCountersWithContext,
		sensors:  host.SensorsTemperaturesWithContext,
		now:      time.Now,
	}
}

// LoadCPU reports aggregate CPU utilization as a percentage of all
// cores. The first sample establishes the baseline and reads near
// zero.
func (s *System) LoadCPU(ctx context.Context) (protocol.Reading, error) {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return protocol.Reading{}, fmt.Errorf("cpu load: %w", err)
	}
	if len(percents) == 0 {
		return protocol.Reading{}, fmt.Errorf("cpu load: no data")
	}
	return protocol.Measure(round1(percents[0]), 100), nil
}

// Memory reports used versus total physical memory in MB.
func (s *System) Memory(ctx context.Context) (protocol.Reading, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return protocol.Reading{}, fmt.Errorf("memory: %w", err)
	}
	return protocol.Measure(
		math.Round(float64(vm.Used)/mb),
		math.Round(float64(vm.Total)/mb),
	), nil
}

// NetworkRx reports the download rate in Mbps since the previous
// sample. It snapshots the NIC counters for both directions, so the
// layout lists it before NetworkTx. The first sample establishes the
// baseline and reads zero.
func (s *System) NetworkRx(ctx context.Context) (protocol.Reading, error) {
	if err := s.updateNetwork(ctx); err != nil {
		return protocol.Reading{}, err
	}
	return protocol.Measure(s.lastRx, linkCapacityMbps), nil
}

// NetworkTx reports the upload rate in Mbps from the snapshot taken
// by the preceding NetworkRx call.
func (s *System) NetworkTx(ctx context.Context) (protocol.Reading, error) {
	return protocol.Measure(s.lastTx, linkCapacityMbps), nil
}

// updateNetwork snapshots the NIC byte counters and derives Mbps
// rates from the previous snapshot.
func (s *System) updateNetwork(ctx context.Context) error {
	counters, err := s.counters(ctx, s.opts.Interface != "")
	if err != nil {
		return fmt.Errorf("network: %w", err)
	}

	var recv, sent uint64
	found := s.opts.Interface == ""
	for _, c := range counters {
		if s.opts.Interface != "" && c.Name != s.opts.Interface {
			continue
		}
		recv += c.BytesRecv
		sent += c.BytesSent
		found = true
	}
	if !found {
		return fmt.Errorf("network: unknown interface %q", s.opts.Interface)
	}

	now := s.now()
	prev := s.prevNet
	s.prevNet = &netSample{at: now, recv: recv, sent: sent}

	s.lastRx, s.lastTx = 0, 0
	if prev == nil {
		return nil
	}
	elapsed := now.Sub(prev.at).Seconds()
	if elapsed <= 0 {
		return nil
	}
	s.lastRx = round1(float64(recv-prev.recv) * 8 / elapsed / mb)
	s.lastTx = round1(float64(sent-prev.sent) * 8 / elapsed / mb)
	return nil
}

// DiskOS reports used versus total space of the OS mount in GB.
func (s *System) DiskOS(ctx context.Context) (protocol.Reading, error) {
	return diskUsage(ctx, s.opts.PathOS)
}

// DiskApps reports used versus total space of the archive mount in GB.
func (s *System) DiskApps(ctx context.Context) (protocol.Reading, error) {
	return diskUsage(ctx, s.opts.PathApps)
}

func diskUsage(ctx context.Context, path string) (protocol.Reading, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return protocol.Reading{}, fmt.Errorf("disk %s: %w", path, err)
	}
	return protocol.Measure(
		math.Round(float64(usage.Used)/gb),
		math.Round(float64(usage.Total)/gb),
	), nil
}

// TempCPU reports the hottest CPU sensor in °C against a fixed 100°C
// junction ceiling. Machines without a recognizable CPU sensor report
// ErrNotImplemented.
func (s *System) TempCPU(ctx context.Context) (protocol.Reading, error) {
	return s.sensorTemp(ctx, cpuSensorKeys, 100)
}

// TempCoolant reports the loop coolant temperature in °C. The 60°C
// ceiling matches the tubing and pump ratings of the build.
func (s *System) TempCoolant(ctx context.Context) (protocol.Reading, error) {
	return s.sensorTemp(ctx, coolantSensorKeys, 60)
}

func (s *System) sensorTemp(ctx context.Context, keys []string, total float64) (protocol.Reading, error) {
	temps, err := s.sensors(ctx)
	if err != nil {
		return protocol.Reading{}, agent.ErrNotImplemented
	}

	hottest := math.Inf(-1)
	for _, t := range temps {
		if !matchesSensor(t.SensorKey, keys) {
			continue
		}
		if t.Temperature <= 0 || t.Temperature > 150 {
			continue
		}
		hottest = math.Max(hottest, t.Temperature)
	}
	if math.IsInf(hottest, -1) {
		return protocol.Reading{}, agent.ErrNotImplemented
	}
	return protocol.Measure(round1(hottest), total), nil
}

func matchesSensor(key string, fragments []string) bool {
	key = strings.ToLower(key)
	for _, fragment := range fragments {
		if strings.Contains(key, fragment) {
			return true
		}
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
