// Package sysinfo provides the system information card: host identity,
// CPU, memory, disk, and uptime, collected through gopsutil.
package sysinfo

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/Nihilentropy-117/Web-Controller/internal/contract"
	"github.com/Nihilentropy-117/Web-Controller/internal/registry"
)

// Builtin registers this package's runner kind.
type Builtin struct{}

// Register binds the "sysinfo" runner.
func (b *Builtin) Register(r *registry.Registry) {
	r.RegisterRunner("sysinfo", New)
}

// Module reports a live snapshot of the host. It keeps no state between
// queries, so reload costs it nothing.
type Module struct {
	contract.Meta
	mount string
}

// New instantiates the module from its manifest spec. Config key "mount"
// selects the filesystem reported under disk usage (default "/").
func New(spec registry.Spec) (contract.Module, error) {
	mount, _ := spec.Config["mount"].(string)
	if mount == "" {
		mount = "/"
	}
	return &Module{Meta: spec.Meta(), mount: mount}, nil
}

// Status collects current host metrics. Each probe is best-effort: a
// metric that cannot be read is simply absent from the snapshot.
func (m *Module) Status(ctx context.Context) (map[string]any, error) {
	status := map[string]any{
		"go_version": runtime.Version(),
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		status["hostname"] = info.Hostname
		status["os"] = fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
		status["uptime"] = formatUptime(time.Duration(info.Uptime) * time.Second)
	}

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		status["cpu_usage"] = fmt.Sprintf("%.1f%%", percents[0])
	}
	if cores, err := cpu.CountsWithContext(ctx, true); err == nil {
		status["cpu_cores"] = cores
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		status["memory_usage"] = fmt.Sprintf("%.1fGB / %.1fGB (%.1f%%)",
			bytesToGB(vm.Used), bytesToGB(vm.Total), vm.UsedPercent)
	}

	if usage, err := disk.UsageWithContext(ctx, m.mount); err == nil {
		status["disk_usage"] = fmt.Sprintf("%.1fGB / %.1fGB (%.1f%%)",
			bytesToGB(usage.Used), bytesToGB(usage.Total), usage.UsedPercent)
	}

	return status, nil
}

// Actions lists the refresh action; the frontend reloads status on success.
func (m *Module) Actions() []contract.Action {
	return []contract.Action{
		{ID: "refresh", Label: "🔄 Refresh Info", Variant: contract.VariantPrimary},
	}
}

// Execute handles the refresh action.
func (m *Module) Execute(ctx context.Context, actionID string, params map[string]any) contract.Result {
	if actionID == "refresh" {
		return contract.Ok("System information refreshed")
	}
	return contract.Fail(fmt.Sprintf("unknown action: %s", actionID))
}

func bytesToGB(v uint64) float64 {
	return float64(v) / (1024 * 1024 * 1024)
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		return "< 1m"
	}
	return strings.Join(parts, " ")
}
