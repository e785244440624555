package domain

// Item is one product's stock record. Stock may go negative: the adjustment
// endpoint applies whatever delta it is given and owns no ordering between
// concurrent callers.
type Item struct {
	ID         int64  `json:"id"`
	ProductID  string `json:"productId"`
	StockCount int    `json:"stockCount"`
}
