package bootstrap

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission keeps session logs out of reach of other users; they carry account ids
	LogFilePermission = 0640
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of log files to retain after cleanup
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingCaseVault   = "Starting CaseVault"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgEngineConfigLoaded  = "Engine configuration loaded"
	LogMsgEnvWarning          = "Environment check"
	ErrMsgFailedCreateLogsDir = "failed to create logs directory"
	ErrMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Storage
// =============================================================================

const (
	LogMsgUsingMemoryStorage   = "Using in-memory storage; all state is lost on exit"
	LogMsgUsingPostgresStorage = "Using postgres storage"
	LogMsgMigrationsApplied    = "Database migrations applied"
	ErrMsgFailedCreateTxMgr    = "failed to create transaction manager"
)

// =============================================================================
// Demo Catalog Sync
// =============================================================================

const (
	LogMsgSyncingDemoCatalog = "Syncing demo catalog from YAML config..."
	LogMsgDemoCatalogSynced  = "Demo catalog synced"
	LogMsgDemoCaseSkipped    = "Demo case already present, skipped"

	ErrMsgFailedLoadDemoCatalog = "failed to load demo catalog"
	ErrMsgInvalidDemoCatalog    = "invalid demo catalog"
	ErrMsgFailedSyncDemoCatalog = "failed to sync demo catalog"
)

// =============================================================================
// Event System
// =============================================================================

const (
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgAuditEventLoggerRegistered = "Audit event logger registered"
	LogMsgEventPublished             = "Event published"
)

// =============================================================================
// Background Jobs
// =============================================================================

const (
	LogMsgBackgroundJobsStarted = "Background jobs scheduled"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgStoppingScheduler    = "Stopping scheduler..."
	LogMsgStoppingWorkerPool   = "Draining worker pool..."
	LogMsgClosingDatabase      = "Closing database pool..."
	LogMsgServerStopped        = "Server stopped"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgShutdownStepTimedOut = "Shutdown step did not finish before the deadline"
)
