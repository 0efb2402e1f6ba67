package domain

// ─── Economy Defaults ───────────────────────────────────────────────────────
// New nodes are seeded with a starter economy so the marketplace is usable
// immediately: a default currency, a starting balance, and a small catalog.

// DefaultStartingBalance is the balance granted when a node is created.
const DefaultStartingBalance int64 = 500

// UseDefaultBalance marks a node create request that wants the registry's
// configured starting balance. Any non-negative balance, including an
// explicit zero, is taken literally.
const UseDefaultBalance int64 = -1

// DefaultEconomy returns the economy used for nodes that have not configured
// their own currency.
func DefaultEconomy() EconomyConfig {
	return EconomyConfig{
		CurrencyName:   "Love Tokens",
		CurrencySymbol: "🪙",
	}
}

// CurrencyPresets returns the built-in currency choices offered when a user
// configures an economy.
func CurrencyPresets() []EconomyConfig {
	return []EconomyConfig{
		{CurrencyName: "Love Tokens", CurrencySymbol: "🪙"},
		{CurrencyName: "Hearts", CurrencySymbol: "❤️"},
		{CurrencyName: "Stars", CurrencySymbol: "⭐"},
		{CurrencyName: "Flowers", CurrencySymbol: "🌹"},
		{CurrencyName: "Cookies", CurrencySymbol: "🍪"},
		{CurrencyName: "Gems", CurrencySymbol: "💎"},
	}
}

// DefaultMarketItems returns the starter catalog seeded onto every new node.
// IDs are assigned by the caller so each node gets distinct item ids.
func DefaultMarketItems() []MarketItem {
	return []MarketItem{
		{Title: "Breakfast in Bed", Cost: 500, Icon: "🥐", Kind: KindService, Category: CategorySpend},
		{Title: "1 Hour Massage", Cost: 1000, Icon: "💆", Kind: KindService, Category: CategorySpend},
		{Title: "Movie Choice", Cost: 300, Icon: "🎬", Kind: KindProduct, Category: CategorySpend},
		{Title: "Wash Dishes", Cost: 150, Icon: "🧼", Kind: KindService, Category: CategoryEarn},
		{Title: "Plan Date Night", Cost: 400, Icon: "📅", Kind: KindQuest, Category: CategoryEarn},
	}
}
