package catalog

// CacheSchemaVersion is bumped when the cached case layout changes so old entries are ignored
const CacheSchemaVersion = "1.0"

const (
	ErrContextGetCase = "failed to load case"

	LogMsgPrizeDemoted      = "Catalog prize demoted to display-only"
	LogMsgInvalidWeight     = "Catalog prize has a negative or non-finite weight, treating as zero"
	LogMsgCaseCacheHit      = "Case served from cache"
	LogMsgCaseCacheRefilled = "Case loaded from catalog"
)
