package constants

type ContextKey string

const (
	PoolKey     ContextKey = "pool"
	TxKey       ContextKey = "tx"
	TenantIDKey ContextKey = "tenantID"
	ActorIDKey  ContextKey = "actorID"
	LoggerKey   ContextKey = "logger"
)
