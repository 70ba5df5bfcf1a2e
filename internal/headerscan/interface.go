package headerscan

import (
	"context"
	"secheaders/pkg/domain"
)

//go:generate mockgen -package mockheaderscan -source=interface.go -destination=mock/mockheaderscan.go *
type Scanner interface {
	Scan(ctx context.Context, rawURL string) domain.ScanResult
	ScanAll(ctx context.Context, urls []string) ([]domain.ScanResult, error)
}

// Ensure Prober implements Scanner.
var _ Scanner = (*Prober)(nil)
