package ir

// OutcomeCode is a canonical classification of a test vector's expected
// result. The set of codes is closed: only codes registered in
// outcomeCategories exist.
type OutcomeCode string

// Codes referenced directly by the compiler. The full set lives in
// outcomeCategories.
const (
	OutcomeSuccess       OutcomeCode = "success"
	OutcomeStackFalse    OutcomeCode = "stack_false"
	OutcomeInvalidScript OutcomeCode = "invalid_script"
	OutcomeOpAdd         OutcomeCode = "op_add"
	OutcomeOpSub         OutcomeCode = "op_sub"
	OutcomeUnknown       OutcomeCode = "unknown"
)

// OutcomeCategory partitions the outcome taxonomy.
type OutcomeCategory string

const (
	CategorySuccess       OutcomeCategory = "success"
	CategoryLogicalFalse  OutcomeCategory = "logical_false"
	CategoryScript        OutcomeCategory = "script"
	CategoryOpcode        OutcomeCategory = "opcode"
	CategoryStack         OutcomeCategory = "stack"
	CategorySignature     OutcomeCategory = "signature"
	CategoryEncoding      OutcomeCategory = "encoding"
	CategoryLocktime      OutcomeCategory = "locktime"
	CategoryArithmetic    OutcomeCategory = "arithmetic"
	CategoryPolicy        OutcomeCategory = "policy"
	CategoryIntrospection OutcomeCategory = "introspection"
	CategoryUnknown       OutcomeCategory = "unknown"
)

var outcomeCategories = map[OutcomeCode]OutcomeCategory{
	OutcomeSuccess:    CategorySuccess,
	OutcomeStackFalse: CategoryLogicalFalse,
	OutcomeUnknown:    CategoryUnknown,

	OutcomeInvalidScript:     CategoryScript,
	"invalid_push_data_size": CategoryScript,
	"invalid_stack_scope":    CategoryScript,
	"operation_failed":       CategoryScript,
	"op_return":              CategoryScript,
	"op_endif":               CategoryScript,
	"op_else":                CategoryScript,
	"op_verify":              CategoryScript,
	"op_verify_empty_stack":  CategoryScript,
	"op_verify_failed":       CategoryScript,

	"op_reserved":                            CategoryOpcode,
	"op_disabled":                            CategoryOpcode,
	"op_cat":                                 CategoryOpcode,
	"op_split":                               CategoryOpcode,
	"op_reverse_bytes":                       CategoryOpcode,
	"op_size":                                CategoryOpcode,
	"op_and":                                 CategoryOpcode,
	"op_or":                                  CategoryOpcode,
	"op_xor":                                 CategoryOpcode,
	"op_equal":                               CategoryOpcode,
	"op_equal_verify_insufficient_stack":     CategoryOpcode,
	"op_equal_verify_failed":                 CategoryOpcode,
	"op_num2bin":                             CategoryOpcode,
	"op_num2bin_invalid_size":                CategoryOpcode,
	"op_num2bin_size_exceeded":               CategoryOpcode,
	"op_num2bin_impossible_encoding":         CategoryOpcode,
	"op_bin2num":                             CategoryOpcode,
	"op_bin2num_invalid_number_range":        CategoryOpcode,
	"op_ripemd160":                           CategoryOpcode,
	"op_sha1":                                CategoryOpcode,
	"op_sha256":                              CategoryOpcode,
	"op_hash160":                             CategoryOpcode,
	"op_hash256":                             CategoryOpcode,
	"op_check_data_sig":                      CategoryOpcode,
	"op_check_data_sig_verify":               CategoryOpcode,
	"op_check_sig_verify_failed":             CategoryOpcode,
	"op_num_equal":                           CategoryOpcode,
	"op_num_equal_verify_insufficient_stack": CategoryOpcode,
	"op_num_equal_verify_failed":             CategoryOpcode,

	"op_from_alt_stack":             CategoryStack,
	"stack_to_alt_overflow":         CategoryStack,
	"stack_from_alt_underflow":      CategoryStack,
	"ifdup_invalid_stack_operation": CategoryStack,
	"drop_invalid_stack_operation":  CategoryStack,
	"dup_invalid_stack_operation":   CategoryStack,
	"nip_invalid_stack_operation":   CategoryStack,
	"over_invalid_stack_operation":  CategoryStack,
	"pick_invalid_stack_operation":  CategoryStack,
	"roll_invalid_stack_operation":  CategoryStack,
	"rot_invalid_stack_operation":   CategoryStack,
	"swap_invalid_stack_operation":  CategoryStack,
	"tuck_invalid_stack_operation":  CategoryStack,
	"dup2_invalid_stack_operation":  CategoryStack,
	"dup3_invalid_stack_operation":  CategoryStack,
	"over2_invalid_stack_operation": CategoryStack,
	"swap2_invalid_stack_operation": CategoryStack,
	"op_if_dup":                     CategoryStack,
	"op_drop":                       CategoryStack,
	"op_dup":                        CategoryStack,
	"op_nip":                        CategoryStack,
	"op_over":                       CategoryStack,
	"op_pick":                       CategoryStack,
	"op_roll":                       CategoryStack,
	"op_rot":                        CategoryStack,
	"op_swap":                       CategoryStack,
	"op_tuck":                       CategoryStack,
	"op_dup2":                       CategoryStack,
	"op_dup3":                       CategoryStack,
	"op_over2":                      CategoryStack,
	"op_swap2":                      CategoryStack,

	"invalid_signature_encoding": CategorySignature,
	"sig_hashtype":               CategorySignature,
	"sig_high_s":                 CategorySignature,
	"sig_nullfail":               CategorySignature,
	"sig_badlength":              CategorySignature,
	"sig_nonschnorr":             CategorySignature,
	"pubkey_type":                CategorySignature,
	"sighash_forkid":             CategorySignature,
	"illegal_forkid":             CategorySignature,
	"must_use_forkid":            CategorySignature,
	"missing_forkid":             CategorySignature,

	"minimaldata":     CategoryEncoding,
	"minimal_number":  CategoryEncoding,
	"strict_encoding": CategoryEncoding,

	"negative_locktime":    CategoryLocktime,
	"unsatisfied_locktime": CategoryLocktime,

	OutcomeOpAdd:      CategoryArithmetic,
	OutcomeOpSub:      CategoryArithmetic,
	"op_not":          CategoryArithmetic,
	"op_mul":          CategoryArithmetic,
	"op_mul_overflow": CategoryArithmetic,
	"op_div":          CategoryArithmetic,
	"op_div_by_zero":  CategoryArithmetic,
	"op_mod":          CategoryArithmetic,
	"op_mod_by_zero":  CategoryArithmetic,

	"sig_pushonly": CategoryPolicy,
	"cleanstack":   CategoryPolicy,
	"minimalif":    CategoryPolicy,

	"op_input_index":           CategoryIntrospection,
	"op_active_bytecode":       CategoryIntrospection,
	"op_tx_version":            CategoryIntrospection,
	"op_tx_input_count":        CategoryIntrospection,
	"op_tx_output_count":       CategoryIntrospection,
	"op_tx_locktime":           CategoryIntrospection,
	"op_utxo_value":            CategoryIntrospection,
	"op_utxo_bytecode":         CategoryIntrospection,
	"op_outpoint_tx_hash":      CategoryIntrospection,
	"op_outpoint_index":        CategoryIntrospection,
	"op_input_bytecode":        CategoryIntrospection,
	"op_input_sequence_number": CategoryIntrospection,
	"op_output_value":          CategoryIntrospection,
	"op_output_bytecode":       CategoryIntrospection,
}

// Known reports whether c is a member of the taxonomy.
func (c OutcomeCode) Known() bool {
	_, ok := outcomeCategories[c]
	return ok
}

// Category returns the partition c belongs to.
// Codes outside the taxonomy report CategoryUnknown.
func (c OutcomeCode) Category() OutcomeCategory {
	if cat, ok := outcomeCategories[c]; ok {
		return cat
	}
	return CategoryUnknown
}

// IsFailure reports whether c describes a failed evaluation.
func (c OutcomeCode) IsFailure() bool {
	switch c.Category() {
	case CategorySuccess, CategoryLogicalFalse:
		return false
	}
	return true
}

// OutcomeCodes returns the number of registered codes.
func OutcomeCodes() int {
	return len(outcomeCategories)
}
