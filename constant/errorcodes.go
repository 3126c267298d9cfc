package constant

// Batch service error codes
const (
	// Label service - Validation errors (1xx)
	ErrCodeInvalidPackageType = "SVC101"
	ErrCodeInvalidCount       = "SVC102"
	ErrCodeInvalidRange       = "SVC103"

	// Label service - Encoding errors (2xx)
	ErrCodeCapacityOverflow = "SVC201"
	ErrCodeCapacityExceeded = "SVC202"

	// Label service - Composition errors (3xx)
	ErrCodeCompose = "SVC301"

	// Label service - Output errors (4xx)
	ErrCodeWriteFailure = "SVC401"

	// Label service - Ledger errors (5xx)
	ErrCodeLedgerRecord = "SVC501"
	ErrCodeLedgerLookup = "SVC502"
)

// Output directory error codes
const (
	ErrCodeDirCreate   = "OUT001"
	ErrCodeDirStat     = "OUT002"
	ErrCodeNotDir      = "OUT003"
	ErrCodeDirNotEmpty = "OUT004"
)

// Database error codes
const (
	// General DB errors (5xx)
	ErrCodeDBGeneral = "DB500"

	// Connection errors (0xx)
	ErrCodeDBOpen    = "DB001"
	ErrCodeDBMigrate = "DB002"

	// Record operation errors (1xx)
	ErrCodeDBInsert = "DB101"

	// Issued operation errors (2xx)
	ErrCodeDBLookup = "DB201"

	// Close operation errors (4xx)
	ErrCodeDBClose = "DB401"
)

// Error types for categorization
const (
	// Domain error types
	ErrTypeValidation = "validation"
	ErrTypeEncoding   = "encoding"
	ErrTypeCompose    = "compose"
	ErrTypeOutput     = "output"
	ErrTypeLedger     = "ledger"

	// Infrastructure error types
	ErrTypeDB = "db"
)
