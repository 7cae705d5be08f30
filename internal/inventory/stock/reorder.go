package stock

// DefaultReorderQuantity is used when a product has no configured reorder
// batch size.
const DefaultReorderQuantity = 50

// SuggestedReorderQuantity derives a suggested reorder quantity from the
// shortfall against the reorder level and the product's configured batch
// size. It never suggests less than the shortfall, and never less than the
// configured default.
func SuggestedReorderQuantity(quantityInStock, reorderLevel int, configuredReorderQuantity *int) int {
	needed := reorderLevel - quantityInStock
	if needed < 0 {
		needed = 0
	}

	defaultQty := DefaultReorderQuantity
	if configuredReorderQuantity != nil {
		defaultQty = *configuredReorderQuantity
	}

	if needed > defaultQty {
		return needed
	}
	return defaultQty
}
