package collectors

import (
	"gitlab.com/tinyland/lab/coraldeck/agent"
	"gitlab.com/tinyland/lab/coraldeck/protocol"
)

// DefaultLayout is the dashboard tree for the water-cooled build:
// temperatures up top, then the pump, load, memory, network and the
// two disks.
func DefaultLayout() []protocol.Descriptor {
	return []protocol.Descriptor{
		protocol.NewSection("Temperature"),
		protocol.NewColumns(
			protocol.WidgetSpec{
				Kind:       protocol.KindGraph,
				Identifier: "temp_coolant",
				LeftTpl:    "Coolant",
				RightTpl:   "{value}°C/{total}Max",
			},
			protocol.WidgetSpec{
				Kind:       protocol.KindGraph,
				Identifier: "temp_gpu",
				LeftTpl:    "GPU",
				RightTpl:   "{value}°C/{total}TJM",
			},
			protocol.WidgetSpec{
				Kind:       protocol.KindGraph,
				Identifier: "temp_cpu",
				LeftTpl:    "CPU",
				RightTpl:   "{value}°C/{total}TJM",
			},
		),
		protocol.NewDivider(),
		protocol.NewWidget(protocol.WidgetSpec{
			Kind:       protocol.KindBar,
			Identifier: "pump",
			LeftTpl:    "Pump",
			RightTpl:   "{quotient}% [{value}/{total}]RPM",
		}),
		protocol.NewDivider(),
		protocol.NewSection("Load"),
		protocol.NewColumns(
			protocol.WidgetSpec{
				Kind:       protocol.KindGraph,
				Identifier: "load_gpu",
				LeftTpl:    "GPU",
				RightTpl:   "{quotient}%",
			},
			protocol.WidgetSpec{
				Kind:       protocol.KindGraph,
				Identifier: "load_cpu",
				LeftTpl:    "CPU",
				RightTpl:   "{quotient}%",
			},
		),
		protocol.NewDivider(),
		protocol.NewSection("Memory"),
		protocol.NewWidget(protocol.WidgetSpec{
			Kind:       protocol.KindGraph,
			Identifier: "memory",
			LeftTpl:    "Memory",
			RightTpl:   "{quotient}% [{value}/{total}]MB",
		}),
		protocol.NewDivider(),
		protocol.NewSection("Network"),
		protocol.NewColumns(
			protocol.WidgetSpec{
				Kind:       protocol.KindGraph,
				Identifier: "network_rx",
				LeftTpl:    "Download",
				RightTpl:   "{value}Mbps",
			},
			protocol.WidgetSpec{
				Kind:       protocol.KindGraph,
				Identifier: "network_tx",
				LeftTpl:    "Upload",
				RightTpl:   "{value}Mbps",
			},
		),
		protocol.NewDivider(),
		protocol.NewSection("Disk"),
		protocol.NewColumns(
			protocol.WidgetSpec{
				Kind:       protocol.KindBar,
				Identifier: "disk_os",
				LeftTpl:    "OS",
				RightTpl:   "{quotient}% [{value}/{total}]GB",
			},
			protocol.WidgetSpec{
				Kind:       protocol.KindBar,
				Identifier: "disk_apps",
				LeftTpl:    "Archive",
				RightTpl:   "{quotient}% [{value}/{total}]GB",
			},
		),
	}
}

// DefaultPalette styles the default layout. Graph lanes get a light
// and a dark shade of one hue per metric, bars keep a gray body with
// a colored fill.
func DefaultPalette() []protocol.StyleRule {
	rules := []protocol.StyleRule{
		{Name: "section title", Foreground: "black, bold", Background: "white"},
		{Name: "popup", Foreground: "black, bold", Background: "white"},
	}

	graphs := []struct{ identifier, light, dark string }{
		{"temp_coolant", "light red", "dark red"},
		{"temp_gpu", "light green", "dark green"},
		{"temp_cpu", "light blue", "dark blue"},
		{"load_gpu", "dark gray", "dark green"},
		{"load_cpu", "dark gray", "dark blue"},
		{"memory", "white", "light gray"},
		{"network_rx", "light magenta", "dark magenta"},
		{"network_tx", "light magenta", "dark magenta"},
	}
	for _, g := range graphs {
		rules = append(rules,
			protocol.StyleRule{Name: g.identifier + " background", Background: "black"},
			protocol.StyleRule{Name: g.identifier + " bar1", Background: g.light},
			protocol.StyleRule{Name: g.identifier + " bar2", Background: g.dark},
			protocol.StyleRule{Name: g.identifier + " left_label", Foreground: "white, bold"},
			protocol.StyleRule{Name: g.identifier + " right_label", Foreground: "white, bold"},
		)
	}

	bars := []struct{ identifier, fill string }{
		{"pump", "dark red"},
		{"disk_os", "dark cyan"},
		{"disk_apps", "brown"},
	}
	for _, b := range bars {
		rules = append(rules,
			protocol.StyleRule{Name: b.identifier + " normal", Foreground: "white", Background: "dark gray"},
			protocol.StyleRule{Name: b.identifier + " complete", Foreground: "white", Background: b.fill},
			protocol.StyleRule{Name: b.identifier + " left_label", Foreground: "white, bold"},
			protocol.StyleRule{Name: b.identifier + " right_label", Foreground: "white, bold"},
		)
	}
	return rules
}

// Metrics binds every identifier in the default layout to its
// collector, in layout order. NetworkRx deliberately precedes
// NetworkTx so both rates come from one counter snapshot.
func Metrics(system *System, gpu *GPU, pump *Pump) []agent.Metric {
	return []agent.Metric{
		{Name: "temp_coolant", Collect: system.TempCoolant},
		{Name: "temp_gpu", Collect: gpu.Temperature},
		{Name: "temp_cpu", Collect: system.TempCPU},
		{Name: "pump", Collect: pump.Collect},
		{Name: "load_gpu", Collect: gpu.Load},
		{Name: "load_cpu", Collect: system.LoadCPU},
		{Name: "memory", Collect: system.Memory},
		{Name: "network_rx", Collect: system.NetworkRx},
		{Name: "network_tx", Collect: system.NetworkTx},
		{Name: "disk_os", Collect: system.DiskOS},
		{Name: "disk_apps", Collect: system.DiskApps},
	}
}
