package cache

import "time"

// Namespaces used by the application, one per data domain.
const (
	NamespaceSales           = "vendas"
	NamespaceServices        = "servicos"
	NamespaceProducts        = "produtos"
	NamespaceClients         = "clientes"
	NamespaceAppointments    = "agendamentos"
	NamespaceInventory       = "estoque"
	NamespaceReports         = "relatorios"
	NamespaceUserPreferences = "preferencias"
	NamespaceAuth            = "auth"
)

// Recommended TTLs
const (
	TTLOneMinute      = time.Minute
	TTLFiveMinutes    = 5 * time.Minute
	TTLFifteenMinutes = 15 * time.Minute
	TTLThirtyMinutes  = 30 * time.Minute
	TTLOneHour        = time.Hour
	TTLOneDay         = 24 * time.Hour
	TTLOneWeek        = 7 * 24 * time.Hour
)

// NoExpiry is what TTL reports for an entry written without a TTL.
const NoExpiry time.Duration = -1
