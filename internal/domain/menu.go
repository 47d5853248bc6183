package domain

// Menu is an item sold by a store. Price is in won.
type Menu struct {
	ID        int64
	StoreID   int64
	Title     string
	Content   string
	Price     int64
	Thumbnail string
}
