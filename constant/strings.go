package constant

// Request context keys
const (
	RequestIDKey = "request_id"
	RunIDKey     = "run_id"
)

// HTTP header names
const (
	HeaderRequestID   = "X-Request-ID"
	HeaderContentType = "Content-Type"
)

// Function/Context names
const (
	// Domain context names
	CtxDomain    = "domain"
	CtxRun       = "Run"
	CtxRender    = "Render"
	CtxPreflight = "Preflight"

	// Infrastructure context names
	CtxDB     = "db"
	CtxRecord = "Record"
	CtxIssued = "Issued"
	CtxClose  = "Close"
	CtxOutput = "output"
	CtxAPI    = "api"

	// General context names
	CtxRouter          = "Router"
	CtxMain            = "Main"
	CtxServe           = "Serve"
	CtxGetLabel        = "GetLabel"
	CtxGetLabelPayload = "GetLabelPayload"
)

// Data field keys
const (
	// Service data fields
	DataService    = "service"
	DataCode       = "code"
	DataType       = "type"
	DataStart      = "start"
	DataCount      = "count"
	DataPayload    = "payload"
	DataPath       = "path"
	DataDimensions = "dimensions"
	DataVersion    = "version"
	DataTarget     = "target_version"
	DataGenerated  = "generated"
	DataOverflowed = "overflowed"
	DataSkipped    = "skipped"
	DataFormat     = "format"
	DataLabeled    = "labeled"
	DataDir        = "dir"

	// Database data fields
	DataElapsed = "elapsed"
	DataRows    = "rows"
	DataSQL     = "sql"
	DataData    = "data"

	// API data fields
	DataMethod     = "method"
	DataStatus     = "status"
	DataLatency    = "latency"
	DataSize       = "size"
	DataRemoteAddr = "remote_addr"
	DataUserAgent  = "user_agent"
	DataPort       = "port"
	DataLedgerPath = "ledger_path"
	DataCacheHit   = "cache_hit"
	DataHits       = "cache_hits"
	DataMisses     = "cache_misses"
)

// Error message constants
const (
	ErrInvalidPackageType = "package type must be one of sample, normal"
	ErrInvalidCount       = "count must not be negative"
	ErrRangeOverflow      = "start + count exceeds the largest code"
	ErrCapacityExceeded   = "payload exceeds maximum qr code capacity"
	ErrWriteFailed        = "failed to write label image"
	ErrNotDirectory       = "path is not a directory"
	ErrDirNotEmpty        = "path exists and is not empty"
	ErrLedgerInOutputDir  = "ledger must not live inside the output directory"
	ErrInvalidCode        = "code must be a non-negative integer"
)

// Error codes
const (
	ErrCodeAPIInvalidRequest = "API001"
	ErrCodeAPIRenderError    = "API002"
	ErrCodeAppServerStart    = "APP002"
	ErrCodeAppServerShutdown = "APP003"
)

// Error types
const (
	ErrTypeAPI = "api"
	ErrTypeApp = "application"
)

// API routes
const (
	RouteLabel        = "/labels/{type}/{code}"
	RouteLabelPayload = "/labels/{type}/{code}/payload"
	RouteHealthcheck  = "/health"
)

// Log keys
const (
	LogTimeKey         = "time"
	LogLevelKey        = "level"
	LogNameKey         = "logger"
	LogCallerKey       = "caller"
	LogMessageKey      = "msg"
	LogStacktraceKey   = "stacktrace"
	LogRequestIDKey    = "request_id"
	LogRunIDKey        = "run_id"
	LogFunctionKey     = "function"
	LogErrorCodeKey    = "error_code"
	LogErrorTypeKey    = "error_type"
	LogErrorMessageKey = "error_message"
	LogEncodingJSON    = "json"
	LogEncodingConsole = "console"
	LogOutputStdout    = "stdout"
	LogOutputStderr    = "stderr"
	LogName            = "qrcoder"
)

// Message constants for application
const (
	MsgApplicationStarting = "Application starting"
	MsgCreatingDirectory   = "Creating directory"
	MsgLedgerOpened        = "Issuance ledger opened"
	MsgServerStarting      = "Server starting"
	MsgServerFailedToStart = "Server failed to start"
	MsgServerShuttingDown  = "Server shutting down"
	MsgServerShutdownError = "Error during server shutdown"
	MsgServerStopped       = "Server stopped"
	MsgRequestReceived     = "Request received"
	MsgRequestCompleted    = "Request completed"
	MsgSettingUpRoutes     = "Setting up API routes"
	MsgHealthcheckRequest  = "Handling healthcheck request"
	MsgHealthy             = "Healthy"
	MsgWritingLabel        = "Writing qr code"
	MsgAlreadyIssued       = "Code was already issued by an earlier run"
	MsgSkippedCode         = "Skipping code, payload does not fit any qr code version"
)

// Message formats that name the affected code or count
const (
	MsgOverflowFmt  = "There was too much data for code %d. Therefore a larger qr code will be created."
	MsgGeneratedFmt = "Generated %d qr codes"
)
