package types

// AppType specifies app type.
type AppType string

// Valuer AppType enums.
const (
	Valuer AppType = "valuer"
)

// SysVar specifies the system variables.
type SysVar string

// SysVarSchemaVersion SysVar enums.
const (
	SysVarSchemaVersion SysVar = "schema_version"
)

// TableName specifies table name.
type TableName string

const (
	PositionSnapshot TableName = "position_snapshot"
)
