// Package report defines ports for exporting finance summaries to external
// destinations.
package report

import (
	"context"

	"coown/internal/core"
)

// SummaryWriter exports an item's finance summary. Implementations return an
// opaque reference to where the export landed.
type SummaryWriter interface {
	WriteSummary(ctx context.Context, itemTitle string, summary core.FinanceSummary) (ref string, err error)
}
