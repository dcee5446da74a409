package collectors

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gitlab.com/tinyland/lab/coraldeck/agent"
	"gitlab.com/tinyland/lab/coraldeck/protocol"
)

// pumpMaxRPM is the rated maximum of a Laing D5 PWM pump motor.
const pumpMaxRPM = 4800

// Pump reads the water pump tachometer from the hwmon sysfs tree. The
// pump header shows up as a fan input on the motherboard sensor chip
// or on the cooler's own hwmon device.
type Pump struct {
	root string
	// Restrict the search to hwmon devices whose name file matches
	// one of these fragments. Empty means any device.
	chips []string
}

// NewPump builds a pump collector over /sys/class/hwmon.
func NewPump(chips ...string) *Pump {
	return &Pump{root: "/sys/class/hwmon", chips: chips}
}

// Collect reports the pump speed in RPM against the rated maximum.
// Machines without a spinning fan input report ErrNotImplemented.
func (p *Pump) Collect(ctx context.Context) (protocol.Reading, error) {
	devices, err := filepath.Glob(filepath.Join(p.root, "hwmon*"))
	if err != nil || len(devices) == 0 {
		return protocol.Reading{}, agent.ErrNotImplemented
	}

	for _, device := range devices {
		if !p.chipMatches(device) {
			continue
		}
		inputs, _ := filepath.Glob(filepath.Join(device, "fan*_input"))
		for _, input := range inputs {
			rpm, ok := readRPM(input)
			if ok && rpm > 0 {
				return protocol.Measure(rpm, pumpMaxRPM), nil
			}
		}
	}
	return protocol.Reading{}, agent.ErrNotImplemented
}

func (p *Pump) chipMatches(device string) bool {
	if len(p.chips) == 0 {
		return true
	}
	raw, err := os.ReadFile(filepath.Join(device, "name"))
	if err != nil {
		return false
	}
	name := strings.ToLower(strings.TrimSpace(string(raw)))
	for _, chip := range p.chips {
		if strings.Contains(name, strings.ToLower(chip)) {
			return true
		}
	}
	return false
}

func readRPM(path string) (float64, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	rpm, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, false
	}
	return rpm, true
}
