// Package syscalls maps SBPF syscall numbers to the runtime function they name.
package syscalls

import (
	"github.com/spaolacci/murmur3"
)

// legacy numbering used by early toolchains that encoded syscalls by index.
var legacy = map[uint64]string{
	0:  "sol_log",
	1:  "sol_invoke",
	2:  "sol_invoke_signed",
	3:  "sol_create_account",
	4:  "sol_assign",
	5:  "sol_transfer",
	6:  "sol_get_account_data_len",
	7:  "sol_get_account_data",
	8:  "sol_set_account_data",
	9:  "sol_get_clock_sysvar",
	10: "sol_get_rent_sysvar",
	11: "sol_get_clock_sysvar",
	12: "sol_memcpy",
	13: "sol_memcmp",
	14: "sol_memset",
	15: "sol_invoke_signed",
}

// Runtime syscalls are referenced by the murmur3 hash of their symbol name.
var runtimeNames = []string{
	"abort",
	"sol_panic_",
	"sol_log_",
	"sol_log_64_",
	"sol_log_compute_units_",
	"sol_log_pubkey",
	"sol_log_data",
	"sol_create_program_address",
	"sol_try_find_program_address",
	"sol_sha256",
	"sol_keccak256",
	"sol_blake3",
	"sol_secp256k1_recover",
	"sol_poseidon",
	"sol_curve_validate_point",
	"sol_curve_group_op",
	"sol_curve_multiscalar_mul",
	"sol_alt_bn128_group_op",
	"sol_alt_bn128_compression",
	"sol_big_mod_exp",
	"sol_get_clock_sysvar",
	"sol_get_epoch_schedule_sysvar",
	"sol_get_fees_sysvar",
	"sol_get_rent_sysvar",
	"sol_get_epoch_rewards_sysvar",
	"sol_get_last_restart_slot",
	"sol_get_sysvar",
	"sol_get_epoch_stake",
	"sol_memcpy_",
	"sol_memmove_",
	"sol_memcmp_",
	"sol_memset_",
	"sol_invoke_signed_c",
	"sol_invoke_signed_rust",
	"sol_alloc_free_",
	"sol_set_return_data",
	"sol_get_return_data",
	"sol_get_processed_sibling_instruction",
	"sol_get_stack_height",
	"sol_remaining_compute_units",
}

var hashed = func() map[uint64]string {
	m := make(map[uint64]string, len(runtimeNames))
	for _, name := range runtimeNames {
		m[uint64(Hash(name))] = name
	}
	return m
}()

// Hash returns the syscall number a program uses to reference name.
func Hash(name string) uint32 {
	return murmur3.Sum32([]byte(name))
}

// Name resolves a syscall number to its function name.
func Name(num uint64) (string, bool) {
	if name, ok := legacy[num]; ok {
		return name, true
	}
	name, ok := hashed[num]
	return name, ok
}

// NameOr resolves num, returning fallback when it is not known.
func NameOr(num uint64, fallback string) string {
	if name, ok := Name(num); ok {
		return name
	}
	return fallback
}
