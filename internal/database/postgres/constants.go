package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeCheckViolation is raised when a CHECK constraint such as balance >= 0 fails
	PgErrorCodeCheckViolation = "23514"
)

// CashPositionLockKey is the advisory lock taken by cash rechecks
const CashPositionLockKey int64 = 0x43415348 // "CASH"

// Singleton row ids
const (
	rtpConfigID      = 1
	emergencyStateID = 1
)

// Table names
const (
	tableCases            = "cases"
	tablePrizes           = "prizes"
	tableAccounts         = "accounts"
	tableMovements        = "money_movements"
	tableRTPConfig        = "rtp_config"
	tableRTPHistory       = "rtp_history"
	tableEmergencyState   = "emergency_state"
	tableEmergencyHistory = "emergency_history"
	tableSessions         = "user_case_sessions"
	tableAuditLog         = "draw_audit_log"
	tableBlockedEvents    = "blocked_prize_events"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
	ErrMsgFailedToBuildQuery        = "failed to build query"
)

// Error Messages - Catalog Operations
const (
	ErrMsgFailedToGetCase    = "failed to get case"
	ErrMsgFailedToGetPrizes  = "failed to get prizes"
	ErrMsgFailedToGetAccount = "failed to get account"
)

// Error Messages - Ledger Operations
const (
	ErrMsgFailedToGetCashPosition  = "failed to get cash position"
	ErrMsgFailedToCountDraws       = "failed to count draws"
	ErrMsgFailedToLockCashPosition = "failed to lock cash position"
	ErrMsgFailedToUpdateBalance    = "failed to update balance"
	ErrMsgFailedToInsertMovements  = "failed to insert money movements"
)

// Error Messages - RTP Operations
const (
	ErrMsgFailedToGetRTPConfig        = "failed to get rtp config"
	ErrMsgFailedToSaveRTPConfig       = "failed to save rtp config"
	ErrMsgFailedToSetRecommendation   = "failed to store rtp recommendation"
	ErrMsgFailedToAppendRTPHistory    = "failed to append rtp history"
	ErrMsgFailedToListRTPHistory      = "failed to list rtp history"
	ErrMsgFailedToGetEmergencyState   = "failed to get emergency state"
	ErrMsgFailedToSaveEmergencyState  = "failed to save emergency state"
	ErrMsgFailedToAppendEmergencyHist = "failed to append emergency history"
	ErrMsgFailedToListEmergencyHist   = "failed to list emergency history"
)

// Error Messages - Session Operations
const (
	ErrMsgFailedToGetSession    = "failed to get session"
	ErrMsgFailedToCreateSession = "failed to create session"
	ErrMsgFailedToUpdateSession = "failed to update session"
	ErrMsgFailedToCloseSessions = "failed to close idle sessions"
)

// Error Messages - Audit Operations
const (
	ErrMsgFailedToInsertAuditRecord   = "failed to insert audit record"
	ErrMsgFailedToInsertBlockedEvents = "failed to insert blocked prize events"
	ErrMsgFailedToGetAuditRecord      = "failed to get audit record"
	ErrMsgFailedToQueryAuditRecords   = "failed to query audit records"
	ErrMsgFailedToSummarizeBlocked    = "failed to summarize blocked prizes"
	ErrMsgFailedToDeleteBlocked       = "failed to delete blocked prize events"
)

// Log messages
const (
	LogMsgFailedToRollback = "Failed to rollback transaction"
)

// Error Messages - Seeding
const (
	ErrMsgFailedToSeed = "failed to seed fixtures"
)
