package health

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

type Sample struct {
	CPU      float64
	MemUsed  uint64
	MemTotal uint64
	Platform string
	Uptime   uint64
}

func (s Sample) MemPercent() float64 {
	if s.MemTotal == 0 {
		return 0
	}
	return round2(float64(s.MemUsed) / float64(s.MemTotal) * 100)
}

type Sampler interface {
	Sample(ctx context.Context) (Sample, error)
}

// HostSampler reads the local machine through gopsutil.
type HostSampler struct{}

func (HostSampler) Sample(ctx context.Context) (Sample, error) {
	times, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		return Sample{}, fmt.Errorf("cpu times: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("virtual memory: %w", err)
	}
	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("host uptime: %w", err)
	}
	return Sample{
		CPU:      CPUPercent(times),
		MemUsed:  vm.Total - vm.Available,
		MemTotal: vm.Total,
		Platform: runtime.GOOS,
		Uptime:   uptime,
	}, nil
}

// CPUPercent is the mean per-core busy ratio since boot, in [0, 100] with
// two decimals.
func CPUPercent(cores []cpu.TimesStat) float64 {
	var sum float64
	var n int
	for _, c := range cores {
		total := c.User + c.Nice + c.System + c.Idle + c.Iowait + c.Irq + c.Softirq + c.Steal
		if total <= 0 {
			continue
		}
		sum += (total - c.Idle) / total
		n++
	}
	if n == 0 {
		return 0
	}
	return clamp(round2(sum/float64(n)*100), 0, 100)
}

// FormatMemory renders "used/total GB (pct%)".
func FormatMemory(used, total uint64) string {
	const gb = 1 << 30
	pct := 0.0
	if total > 0 {
		pct = float64(used) / float64(total) * 100
	}
	return fmt.Sprintf("%.2f/%.2f GB (%.0f%%)", float64(used)/gb, float64(total)/gb, pct)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
