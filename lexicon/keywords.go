package lexicon

// Keyword weight classes. Merchant names are the strongest signal,
// primary keywords next, secondary keywords weakest.
const (
	WeightPrimary   = 3
	WeightSecondary = 2
	WeightMerchant  = 5
)

// Entry holds the keyword lists for one archetype. Keywords are matched
// as substrings of the normalized text, not as whole tokens, so that
// compound words ("supermarket") still hit.
type Entry struct {
	Primary   []string
	Secondary []string
	Merchants []string
}

var table = map[Archetype]Entry{
	FoodDining: {
		Primary:   []string{"food", "restaurant", "coffee", "lunch", "dinner", "grocery"},
		Secondary: []string{"eat", "pizza", "burger", "snack", "cafe", "bakery", "breakfast"},
		Merchants: []string{"starbucks", "mcdonald", "subway", "dominos", "kfc", "dunkin"},
	},
	Transportation: {
		Primary:   []string{"gas", "fuel", "taxi", "transport", "parking"},
		Secondary: []string{"bus", "metro", "train", "toll", "ride"},
		Merchants: []string{"uber", "lyft", "shell", "chevron"},
	},
	Shopping: {
		Primary:   []string{"store", "shop", "clothes", "purchase"},
		Secondary: []string{"buy", "online", "mall", "outlet"},
		Merchants: []string{"amazon", "walmart", "target", "ikea", "ebay", "aliexpress"},
	},
	Entertainment: {
		Primary:   []string{"movie", "game", "music", "cinema", "concert"},
		Secondary: []string{"show", "ticket", "streaming"},
		Merchants: []string{"netflix", "spotify", "steam", "playstation", "disney"},
	},
	BillsUtilities: {
		Primary:   []string{"electric", "water", "internet", "bill", "utility", "rent"},
		Secondary: []string{"phone", "subscription", "insurance", "mortgage"},
		Merchants: []string{"comcast", "verizon", "t-mobile"},
	},
	HealthFitness: {
		Primary:   []string{"doctor", "pharmacy", "medical", "health", "gym"},
		Secondary: []string{"fitness", "dental", "clinic", "therapy"},
		Merchants: []string{"cvs", "walgreens"},
	},
	HomeGarden: {
		Primary:   []string{"home", "garden", "repair", "furniture"},
		Secondary: []string{"decoration", "cleaning", "tools"},
		Merchants: []string{"home depot", "lowes"},
	},
	Technology: {
		Primary:   []string{"tech", "computer", "software", "gadget"},
		Secondary: []string{"laptop", "electronics", "app"},
		Merchants: []string{"apple", "best buy", "microsoft"},
	},
	Travel: {
		Primary:   []string{"flight", "hotel", "travel", "vacation"},
		Secondary: []string{"trip", "airline", "booking", "airbnb"},
		Merchants: []string{"expedia", "ryanair", "delta"},
	},
	Education: {
		Primary:   []string{"course", "tuition", "school", "university"},
		Secondary: []string{"book", "class", "lesson", "training"},
		Merchants: []string{"udemy", "coursera"},
	},
	Salary: {
		Primary:   []string{"salary", "wage", "paycheck", "payroll"},
		Secondary: []string{"pay", "income", "work"},
	},
	Investment: {
		Primary:   []string{"investment", "dividend", "stock", "crypto"},
		Secondary: []string{"trading", "interest", "fund"},
		Merchants: []string{"robinhood", "coinbase", "vanguard"},
	},
	Freelance: {
		Primary:   []string{"freelance", "client", "consulting", "contract"},
		Secondary: []string{"project", "invoice", "gig"},
		Merchants: []string{"upwork", "fiverr"},
	},
	Business: {
		Primary:   []string{"business", "profit", "revenue", "sales"},
		Secondary: []string{"commission", "royalty"},
	},
	GiftBonus: {
		Primary:   []string{"gift", "bonus", "reward", "prize"},
		Secondary: []string{"refund", "cashback", "rebate"},
	},
}

// EntryFor returns the keyword entry for an archetype. General carries
// no keywords: it only ever appears as the fallback suggestion.
func EntryFor(a Archetype) Entry {
	return table[a]
}
