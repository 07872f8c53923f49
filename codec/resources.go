package codec

import (
	"fmt"
	"log"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceGate verifies that the system has enough headroom before a batch
// run starts. A gate metric that cannot be read is logged and skipped
// rather than blocking the run.
type ResourceGate struct {
	// MinIdleCPU is the CPU percentage that must be idle. Zero disables
	// the check, likewise for the other two thresholds.
	MinIdleCPU  float64
	MinFreeMem  int64
	MinFreeDisk int64
}

// Check inspects CPU, memory, and free disk at destDir's volume. It returns
// an error when any enabled threshold is not met.
func (g ResourceGate) Check(destDir string) error {
	if g.MinIdleCPU > 0 {
		p, err := cpu.Percent(time.Second, false)
		if err != nil {
			log.Printf("Warning: could not get CPU usage: %v", err)
		} else if len(p) > 0 && p[0] > 100.0-g.MinIdleCPU {
			return fmt.Errorf("not enough idle CPU: current usage %.2f%%, idle threshold %.2f%%", p[0], g.MinIdleCPU)
		}
	}

	if g.MinFreeMem > 0 {
		vm, err := mem.VirtualMemory()
		if err != nil {
			log.Printf("Warning: could not get memory usage: %v", err)
		} else if vm.Available < uint64(g.MinFreeMem) {
			return fmt.Errorf("not enough free memory: available %d, required %d", vm.Available, g.MinFreeMem)
		}
	}

	if g.MinFreeDisk > 0 {
		d, err := disk.Usage(destDir)
		if err != nil {
			log.Printf("Warning: could not get disk usage for %s: %v", destDir, err)
		} else if d.Free < uint64(g.MinFreeDisk) {
			return fmt.Errorf("not enough free disk space at %s: available %d, required %d", destDir, d.Free, g.MinFreeDisk)
		}
	}
	return nil
}
