package system

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats - характеристики машины, на которой шел рендер
type HostStats struct {
	CPUModel    string
	LogicalCPUs int
	TotalMemMB  uint64
	AvailMemMB  uint64
	UsedMemPct  float64
	GoRoutines  int
	HeapAllocMB uint64
}

// CollectHostStats собирает данные о CPU и памяти. Недоступные поля остаются
// нулевыми.
func CollectHostStats() HostStats {
	var s HostStats

	if n, err := cpu.Counts(true); err == nil {
		s.LogicalCPUs = n
	} else {
		s.LogicalCPUs = runtime.NumCPU()
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		s.CPUModel = infos[0].ModelName
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.TotalMemMB = vm.Total / 1024 / 1024
		s.AvailMemMB = vm.Available / 1024 / 1024
		s.UsedMemPct = vm.UsedPercent
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.HeapAllocMB = ms.HeapAlloc / 1024 / 1024
	s.GoRoutines = runtime.NumGoroutine()
	return s
}

func (s HostStats) String() string {
	return fmt.Sprintf("CPU: %s x%d | RAM: %d/%d MB free (%.1f%% used) | Heap: %d MB",
		s.CPUModel, s.LogicalCPUs, s.AvailMemMB, s.TotalMemMB, s.UsedMemPct, s.HeapAllocMB)
}

// SuggestWorkers ограничивает число воркеров так, чтобы их буферы кадров
// помещались в свободную память.
func SuggestWorkers(requested int, frameBytes uint64) int {
	if requested <= 0 {
		requested = runtime.NumCPU()
	}
	vm, err := mem.VirtualMemory()
	if err != nil || frameBytes == 0 {
		return requested
	}
	// воркер держит кадр в отрисовке и кадр в записи, с запасом x4
	limit := int(vm.Available / 4 / frameBytes)
	if limit < 1 {
		limit = 1
	}
	if requested > limit {
		return limit
	}
	return requested
}
