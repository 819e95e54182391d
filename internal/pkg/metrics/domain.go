package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"shipping/internal/entities"
)

var (
	ReceptionParcelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reception_parcels_total",
			Help: "Scanned parcels processed by reception, by outcome",
		},
		[]string{"outcome"},
	)

	InterAgencyDebtsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inter_agency_debts_created_total",
			Help: "Pending inter-agency debts written to the ledger, by relationship",
		},
		[]string{"relationship"},
	)

	DispatchTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_status_transitions_total",
			Help: "Dispatch status changes, by resulting status",
		},
		[]string{"status"},
	)
)

// Changes копит доменные события транзакции. Счетчики обновляются через Flush
// только после фиксации, поэтому откаченные и повторенные попытки не учитываются.
type Changes struct {
	transitions []entities.DispatchStatus
	debts       []entities.DebtRelationship
}

// Reset вызывается в начале каждой попытки транзакции.
func (c *Changes) Reset() {
	c.transitions = c.transitions[:0]
	c.debts = c.debts[:0]
}

func (c *Changes) Transition(status entities.DispatchStatus) {
	c.transitions = append(c.transitions, status)
}

func (c *Changes) DebtsCreated(debts []entities.InterAgencyDebt) {
	for _, debt := range debts {
		c.debts = append(c.debts, debt.Relationship)
	}
}

func (c *Changes) Flush() {
	for _, status := range c.transitions {
		DispatchTransitionsTotal.WithLabelValues(status.String()).Inc()
	}
	for _, relationship := range c.debts {
		InterAgencyDebtsCreatedTotal.WithLabelValues(relationship.String()).Inc()
	}
	c.Reset()
}
