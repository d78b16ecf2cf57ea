package database

// Pool sizing when settings leave a value unset
const (
	DefaultMaxConnections = 10
	DefaultMinConnections = 2
)

const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToLoadMigrations  = "failed to load migrations"
	ErrMsgFailedToApplyMigrations = "failed to apply migrations"
	ErrMsgFailedToReadStatus      = "failed to read migration status"
)

const (
	LogMsgConnected        = "Connected to the database"
	LogMsgMigrationApplied = "Migration applied"
)
