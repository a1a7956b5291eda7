package services

import (
	"strings"

	"salesdashboard/internal/domain"
)

// DefaultPageSize is the list page size on wide viewports.
const DefaultPageSize = 10

// DefaultWidgetConfigs returns the orders, payments and stock lists served by
// the remote endpoints under baseURL.
func DefaultWidgetConfigs(baseURL string, pageSize int) []domain.WidgetConfig {
	base := strings.TrimRight(baseURL, "/")
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return []domain.WidgetConfig{
		{
			Name:     domain.WidgetOrders,
			Endpoint: base + "/orders.php",
			ItemsKey: "orders",
			Fields:   domain.DefaultFieldMapping(),
			PageSize: pageSize,
			StatusFilters: []string{
				domain.StatusAll,
				domain.StatusPaid,
				domain.StatusUnpaid,
				domain.StatusCreditNote,
			},
			StickyCounters: true,
			Columns: []domain.Column{
				{Key: "numero", Header: "N° commande"},
				{Key: "date", Header: "Date"},
				{Key: "client", Header: "Client"},
				{Key: "magasin", Header: "Magasin"},
				{Key: "montant_ttc", Header: "Montant TTC"},
				{Key: "statut", Header: "Statut"},
			},
		},
		{
			Name:     domain.WidgetPayments,
			Endpoint: base + "/payments.php",
			ItemsKey: "payments",
			Fields:   domain.DefaultFieldMapping(),
			PageSize: pageSize,
			Columns: []domain.Column{
				{Key: "date", Header: "Date"},
				{Key: "reference", Header: "Référence"},
				{Key: "mode", Header: "Mode de paiement"},
				{Key: "magasin", Header: "Magasin"},
				{Key: "montant", Header: "Montant"},
			},
		},
		{
			Name:     domain.WidgetStock,
			Endpoint: base + "/stock.php",
			ItemsKey: "data",
			Fields:   domain.DefaultFieldMapping(),
			PageSize: pageSize,
		},
	}
}
