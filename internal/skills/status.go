package skills

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/bowerhall/parley/internal/intent"
)

// Status reports host health: CPU, memory, and uptime.
type Status struct{}

func NewStatus() *Status {
	return &Status{}
}

func (s *Status) Name() string {
	return "status"
}

func (s *Status) CanHandle(label string) bool {
	return label == intent.StatusQuery
}

func (s *Status) RequiredEntities() []string {
	return nil
}

func (s *Status) Execute(ctx context.Context, entities map[string]string) (string, error) {
	hostname, _ := os.Hostname()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Running on %s.", hostname))

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		sb.WriteString(fmt.Sprintf(" CPU at %.1f%%.", percents[0]))
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		sb.WriteString(fmt.Sprintf(" Memory %.1f%% used (%s of %s).",
			vm.UsedPercent, formatBytes(vm.Used), formatBytes(vm.Total)))
	}

	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		sb.WriteString(fmt.Sprintf(" Up for %s.", formatUptime(uptime)))
	}

	return sb.String(), nil
}

func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}

func formatUptime(seconds uint64) string {
	d := time.Duration(seconds) * time.Second

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}

	return fmt.Sprintf("%dm", minutes)
}
