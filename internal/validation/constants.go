package validation

const (
	ErrMsgReadData         = "failed to read data file"
	ErrMsgParseData        = "failed to parse data"
	ErrMsgLoadSchema       = "failed to load schema"
	ErrMsgSchemaNotFound   = "schema file not found"
	ErrMsgValidationFailed = "schema validation failed"
)
