package types

type ServiceMode string

func (m ServiceMode) String() string {
	return string(m)
}

// Coordinator serves HTTP/websocket API and consumes external ride decisions.
// Migrate applies SQL migrations and exits.
const (
	CoordinatorService ServiceMode = "coordinator"
	MigrateMode        ServiceMode = "migrate"
)

// StorageDriver selects the storage backend
type StorageDriver string

const (
	StoragePostgres StorageDriver = "postgres"
	StorageMemory   StorageDriver = "memory"
)

// Enum для типов транспорта
type VehicleType string

func (v VehicleType) String() string {
	return string(v)
}

const (
	VehicleBike     VehicleType = "bike"
	VehicleRickshaw VehicleType = "rickshaw"
	VehicleCar      VehicleType = "car"
)

func (v VehicleType) Valid() bool {
	switch v {
	case VehicleBike, VehicleRickshaw, VehicleCar:
		return true
	}
	return false
}

// Enum для роли пользователя
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

// RoleService is an internal caller, e.g. another platform service
// asking for a notification to be dispatched.
const (
	RoleRider   UserRole = "rider"
	RoleDriver  UserRole = "driver"
	RoleService UserRole = "service"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleRider, RoleDriver, RoleService:
		return true
	}
	return false
}

// MessageType is the kind of a chat message
type MessageType string

func (m MessageType) String() string {
	return string(m)
}

const (
	MessageText        MessageType = "text"
	MessageLocation    MessageType = "location"
	MessageSafetyAlert MessageType = "safety_alert"
	MessageSystem      MessageType = "system"
)

func (m MessageType) Valid() bool {
	switch m {
	case MessageText, MessageLocation, MessageSafetyAlert, MessageSystem:
		return true
	}
	return false
}

// Suppressible reports whether recipient preferences may silence the notification.
func (m MessageType) Suppressible() bool {
	return m != MessageSafetyAlert
}

// DeliveryOutcome is the result of one push delivery attempt
type DeliveryOutcome string

func (o DeliveryOutcome) String() string {
	return string(o)
}

const (
	DeliveryDelivered DeliveryOutcome = "delivered"
	DeliveryTransient DeliveryOutcome = "transient_failure"
	DeliveryGone      DeliveryOutcome = "gone"
)

// NotificationType groups notification audit records
type NotificationType string

const (
	NotificationGeneral     NotificationType = "general"
	NotificationRideUpdate  NotificationType = "ride_update"
	NotificationChatMessage NotificationType = "chat_message"
	NotificationSafety      NotificationType = "safety_alert"
)
