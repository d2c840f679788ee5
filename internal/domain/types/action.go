package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionRedisRelayStarted = "redis_relay_started"

	ActionDatabaseTransactionFailed = "database_transaction_failed"
	ActionDeliveryFailed            = "push_delivery_failed"
)
