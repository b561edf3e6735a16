package outcome

import "github.com/roach88/scriptvec/internal/ir"

// labelTable maps corpus outcome labels onto the canonical taxonomy.
var labelTable = map[string]ir.OutcomeCode{
	"OK":         ir.OutcomeSuccess,
	"EVAL_FALSE": ir.OutcomeStackFalse,

	// size limits
	"SCRIPT_SIZE":     ir.OutcomeInvalidScript,
	"PUSH_SIZE":       "invalid_push_data_size",
	"OP_COUNT":        ir.OutcomeInvalidScript,
	"STACK_SIZE":      ir.OutcomeInvalidScript,
	"SIG_COUNT":       ir.OutcomeInvalidScript,
	"PUBKEY_COUNT":    ir.OutcomeInvalidScript,
	"INPUT_SIGCHECKS": ir.OutcomeInvalidScript,

	// failed verify operations
	"VERIFY":              "op_verify_empty_stack",
	"EQUALVERIFY":         ir.OutcomeInvalidScript,
	"CHECKMULTISIGVERIFY": ir.OutcomeInvalidScript,
	"CHECKSIGVERIFY":      ir.OutcomeInvalidScript,
	"CHECKDATASIGVERIFY":  ir.OutcomeInvalidScript,
	"NUMEQUALVERIFY":      ir.OutcomeInvalidScript,

	// logical, format and canonical errors
	"BAD_OPCODE":                 "op_reserved",
	"DISABLED_OPCODE":            "op_disabled",
	"INVALID_STACK_OPERATION":    ir.OutcomeInvalidScript,
	"INVALID_ALTSTACK_OPERATION": "op_from_alt_stack",
	"UNBALANCED_CONDITIONAL":     "invalid_stack_scope",

	// operand, number and bit errors
	"OPERAND_SIZE":                 ir.OutcomeInvalidScript,
	"INVALID_NUMBER_RANGE":         ir.OutcomeInvalidScript,
	"INVALID_NUMBER_RANGE_64_BIT":  ir.OutcomeInvalidScript,
	"INVALID_NUMBER_RANGE_BIG_INT": ir.OutcomeInvalidScript,
	"IMPOSSIBLE_ENCODING":          ir.OutcomeInvalidScript,
	"SPLIT_RANGE":                  ir.OutcomeInvalidScript,
	"INVALID_BIT_COUNT":            ir.OutcomeInvalidScript,
	"DIV_BY_ZERO":                  ir.OutcomeInvalidScript,
	"MOD_BY_ZERO":                  ir.OutcomeInvalidScript,
	"BITFIELD_SIZE":                ir.OutcomeInvalidScript,
	"BIT_RANGE":                    ir.OutcomeInvalidScript,

	// locktime
	"NEGATIVE_LOCKTIME":    "negative_locktime",
	"UNSATISFIED_LOCKTIME": "unsatisfied_locktime",

	"OP_RETURN":     "op_return",
	"UNKNOWN_ERROR": ir.OutcomeInvalidScript,

	// signature encoding and canonical forms
	"SIG_DER":        "invalid_signature_encoding",
	"SIG_HASHTYPE":   "sig_hashtype",
	"MINIMALDATA":    "minimaldata",
	"SIG_PUSHONLY":   "sig_pushonly",
	"SIG_HIGH_S":     "sig_high_s",
	"SIG_NULLFAIL":   "sig_nullfail",
	"NULLFAIL":       "sig_nullfail",
	"PUBKEYTYPE":     "pubkey_type",
	"CLEANSTACK":     "cleanstack",
	"MINIMALIF":      "minimalif",
	"MINIMALNUM":     "minimal_number",
	"STRICTENC":      "strict_encoding",
	"SIGHASH_FORKID": "sighash_forkid",

	// soft-fork safeness
	"DISCOURAGE_UPGRADABLE_NOPS":            "operation_failed",
	"DISCOURAGE_UPGRADABLE_WITNESS_PROGRAM": "operation_failed",

	// schnorr and fork id
	"SIG_BADLENGTH":   "sig_badlength",
	"SIG_NONSCHNORR":  "sig_nonschnorr",
	"ILLEGAL_FORKID":  "illegal_forkid",
	"MUST_USE_FORKID": "must_use_forkid",
	"MISSING_FORKID":  "missing_forkid",

	// limits and context
	"SIGCHECKS_LIMIT_EXCEEDED":        ir.OutcomeInvalidScript,
	"CONTEXT_NOT_PRESENT":             ir.OutcomeInvalidScript,
	"LIMITED_CONTEXT_NO_SIBLING_INFO": ir.OutcomeInvalidScript,
	"INVALID_TX_INPUT_INDEX":          ir.OutcomeInvalidScript,
	"INVALID_TX_OUTPUT_INDEX":         ir.OutcomeInvalidScript,
	"OP_COST":                         ir.OutcomeInvalidScript,
	"HASH_ITERS":                      ir.OutcomeInvalidScript,
	"CONDITIONAL_STACK_DEPTH":         ir.OutcomeInvalidScript,

	// segregated witness
	"WITNESS_PROGRAM_WRONG_LENGTH":  ir.OutcomeInvalidScript,
	"WITNESS_PROGRAM_EMPTY_WITNESS": ir.OutcomeInvalidScript,
	"WITNESS_PROGRAM_MISMATCH":      ir.OutcomeInvalidScript,
	"WITNESS_MALLEATED":             ir.OutcomeInvalidScript,
	"WITNESS_MALLEATED_P2SH":        ir.OutcomeInvalidScript,
	"WITNESS_UNEXPECTED":            ir.OutcomeInvalidScript,
	"WITNESS_PUBKEYTYPE":            ir.OutcomeInvalidScript,

	// transaction
	"TX_INVALID":       ir.OutcomeInvalidScript,
	"TX_SIZE_INVALID":  ir.OutcomeInvalidScript,
	"TX_INPUT_INVALID": ir.OutcomeInvalidScript,

	// node-specific operation errors
	"KTH_OP_VERIFY":                              "op_verify",
	"KTH_OP_VERIFY_EMPTY_STACK":                  "op_verify_empty_stack",
	"KTH_OP_VERIFY_FAILED":                       "op_verify_failed",
	"KTH_OP_REVERSE_BYTES":                       "op_reverse_bytes",
	"KTH_IFDUP_INVALID_STACK_OPERATION":          "ifdup_invalid_stack_operation",
	"KTH_DROP_INVALID_STACK_OPERATION":           "drop_invalid_stack_operation",
	"KTH_DUP_INVALID_STACK_OPERATION":            "dup_invalid_stack_operation",
	"KTH_NIP_INVALID_STACK_OPERATION":            "nip_invalid_stack_operation",
	"KTH_OVER_INVALID_STACK_OPERATION":           "over_invalid_stack_operation",
	"KTH_PICK_INVALID_STACK_OPERATION":           "pick_invalid_stack_operation",
	"KTH_ROLL_INVALID_STACK_OPERATION":           "roll_invalid_stack_operation",
	"KTH_ROT_INVALID_STACK_OPERATION":            "rot_invalid_stack_operation",
	"KTH_SWAP_INVALID_STACK_OPERATION":           "swap_invalid_stack_operation",
	"KTH_TUCK_INVALID_STACK_OPERATION":           "tuck_invalid_stack_operation",
	"KTH_DUP2_INVALID_STACK_OPERATION":           "dup2_invalid_stack_operation",
	"KTH_DUP3_INVALID_STACK_OPERATION":           "dup3_invalid_stack_operation",
	"KTH_OVER2_INVALID_STACK_OPERATION":          "over2_invalid_stack_operation",
	"KTH_SWAP2_INVALID_STACK_OPERATION":          "swap2_invalid_stack_operation",
	"KTH_STACK_TO_ALT_OVERFLOW":                  "stack_to_alt_overflow",
	"KTH_STACK_FROM_ALT_UNDERFLOW":               "stack_from_alt_underflow",
	"KTH_OP_EQUAL_VERIFY_INSUFFICIENT_STACK":     "op_equal_verify_insufficient_stack",
	"KTH_OP_EQUAL_VERIFY_FAILED":                 "op_equal_verify_failed",
	"KTH_OP_NUM_EQUAL":                           "op_num_equal",
	"KTH_OP_NUM_EQUAL_VERIFY_INSUFFICIENT_STACK": "op_num_equal_verify_insufficient_stack",
	"KTH_OP_NUM_EQUAL_VERIFY_FAILED":             "op_num_equal_verify_failed",
	"KTH_OP_CHECK_SIG_VERIFY_FAILED":             "op_check_sig_verify_failed",
	"KTH_OP_ENDIF":                               "op_endif",
	"KTH_OP_ELSE":                                "op_else",
	"KTH_OP_DIV":                                 "op_div",
	"KTH_OP_DIV_BY_ZERO":                         "op_div_by_zero",
	"KTH_OP_MOD":                                 "op_mod",
	"KTH_OP_MOD_BY_ZERO":                         "op_mod_by_zero",
	"KTH_INVALID_SCRIPT":                         ir.OutcomeInvalidScript,

	// node-specific stack operation errors
	"KTH_OP_IF_DUP": "op_if_dup",
	"KTH_OP_DROP":   "op_drop",
	"KTH_OP_DUP":    "op_dup",
	"KTH_OP_NIP":    "op_nip",
	"KTH_OP_OVER":   "op_over",
	"KTH_OP_PICK":   "op_pick",
	"KTH_OP_ROLL":   "op_roll",
	"KTH_OP_ROT":    "op_rot",
	"KTH_OP_SWAP":   "op_swap",
	"KTH_OP_TUCK":   "op_tuck",
	"KTH_OP_DUP2":   "op_dup2",
	"KTH_OP_DUP3":   "op_dup3",
	"KTH_OP_OVER2":  "op_over2",
	"KTH_OP_SWAP2":  "op_swap2",
	"KTH_OP_CAT":    "op_cat",
	"KTH_OP_SPLIT":  "op_split",

	// num2bin / bin2num
	"KTH_OP_NUM2BIN":                      "op_num2bin",
	"KTH_OP_NUM2BIN_INVALID_SIZE":         "op_num2bin_invalid_size",
	"KTH_OP_NUM2BIN_SIZE_EXCEEDED":        "op_num2bin_size_exceeded",
	"KTH_OP_NUM2BIN_IMPOSSIBLE_ENCODING":  "op_num2bin_impossible_encoding",
	"KTH_OP_BIN2NUM":                      "op_bin2num",
	"KTH_OP_BIN2NUM_INVALID_NUMBER_RANGE": "op_bin2num_invalid_number_range",

	// bitwise
	"KTH_OP_SIZE": "op_size",
	"KTH_OP_AND":  "op_and",
	"KTH_OP_OR":   "op_or",
	"KTH_OP_XOR":  "op_xor",

	// signature operations
	"KTH_OP_CHECKDATASIG":       "op_check_data_sig",
	"KTH_OP_CHECKDATASIGVERIFY": "op_check_data_sig_verify",
	"KTH_OP_EQUAL":              "op_equal",

	// arithmetic
	"KTH_OP_ADD":          ir.OutcomeOpAdd,
	"KTH_OP_SUB":          ir.OutcomeOpSub,
	"KTH_OP_NOT":          "op_not",
	"KTH_OP_MUL":          "op_mul",
	"KTH_OP_MUL_OVERFLOW": "op_mul_overflow",

	// hashing
	"KTH_OP_RIPEMD160": "op_ripemd160",
	"KTH_OP_SHA1":      "op_sha1",
	"KTH_OP_SHA256":    "op_sha256",
	"KTH_OP_HASH160":   "op_hash160",
	"KTH_OP_HASH256":   "op_hash256",

	// introspection
	"KTH_OP_INPUT_INDEX":           "op_input_index",
	"KTH_OP_ACTIVE_BYTECODE":       "op_active_bytecode",
	"KTH_OP_TX_VERSION":            "op_tx_version",
	"KTH_OP_TX_INPUT_COUNT":        "op_tx_input_count",
	"KTH_OP_TX_OUTPUT_COUNT":       "op_tx_output_count",
	"KTH_OP_TX_LOCKTIME":           "op_tx_locktime",
	"KTH_OP_UTXO_VALUE":            "op_utxo_value",
	"KTH_OP_UTXO_BYTECODE":         "op_utxo_bytecode",
	"KTH_OP_OUTPOINT_TX_HASH":      "op_outpoint_tx_hash",
	"KTH_OP_OUTPOINT_INDEX":        "op_outpoint_index",
	"KTH_OP_INPUT_BYTECODE":        "op_input_bytecode",
	"KTH_OP_INPUT_SEQUENCE_NUMBER": "op_input_sequence_number",
	"KTH_OP_OUTPUT_VALUE":          "op_output_value",
	"KTH_OP_OUTPUT_BYTECODE":       "op_output_bytecode",
}

// Labels returns the number of labels in the table.
func Labels() int {
	return len(labelTable)
}
