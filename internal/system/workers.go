package system

import (
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// bytes per decoded RGBA frame plus the ffmpeg pipe buffer, with headroom
const frameOverhead = 3

// DecideWorkers sizes the decode/encode pool: at most one worker per logical
// core, further bounded by available memory so a batch of 4K frames does not
// swap the machine.
func DecideWorkers(width, height int) int {
	workers := 4
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		workers = n
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return workers
	}

	perWorker := uint64(width) * uint64(height) * 4 * frameOverhead
	if perWorker == 0 {
		return workers
	}
	budget := int(vm.Available / 2 / perWorker)
	if budget < 1 {
		budget = 1
	}
	if budget < workers {
		workers = budget
	}
	return workers
}
