package domain

import "sort"

type Holding struct {
	Symbol string
	Shares int64
}

// AggregateHoldings nets the signed share counts of txs per symbol. Symbols
// whose net position is not positive are dropped; the result is sorted by
// symbol.
func AggregateHoldings(txs []Transaction) []Holding {
	net := make(map[string]int64)
	for _, tx := range txs {
		net[tx.Symbol] += tx.SignedShares()
	}

	holdings := make([]Holding, 0, len(net))
	for symbol, shares := range net {
		if shares <= 0 {
			continue
		}
		holdings = append(holdings, Holding{Symbol: symbol, Shares: shares})
	}

	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].Symbol < holdings[j].Symbol
	})
	return holdings
}

// SharesOf returns the net shares held for symbol, or zero.
func SharesOf(holdings []Holding, symbol string) int64 {
	for _, h := range holdings {
		if h.Symbol == symbol {
			return h.Shares
		}
	}
	return 0
}

// SortNewestFirst orders txs by ExecutedAt descending, breaking ties by the
// higher ID first.
func SortNewestFirst(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].ExecutedAt.Equal(txs[j].ExecutedAt) {
			return txs[i].ID > txs[j].ID
		}
		return txs[i].ExecutedAt.After(txs[j].ExecutedAt)
	})
}
