package analysis

import "sbpf/internal/decoder"

// SyscallInfo counts syscall invocations. Syscalls is sorted and unique.
type SyscallInfo struct {
	Total     int
	Frequency map[uint64]int
	Syscalls  []uint64
}

// CountSyscalls tallies the syscall numbers used by insts.
func CountSyscalls(insts []decoder.Instruction) SyscallInfo {
	info := SyscallInfo{Frequency: make(map[uint64]int)}
	for _, inst := range insts {
		if num, ok := inst.SyscallNumber(); ok {
			info.Frequency[num]++
			info.Total++
		}
	}
	info.Syscalls = SortedKeys(info.Frequency)
	return info
}
