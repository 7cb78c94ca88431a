// Package lexicon holds the static category archetype table used by the
// classifier: a closed enumeration of archetypes, each carrying keyword
// lists in three weight classes plus defaults for materializing a
// category when the user accepts a suggestion.
package lexicon

import "github.com/HananelSabag/SpendWise-sub004/domain"

// Archetype is a closed tagged enumeration of category archetypes.
// Unknown keys always resolve to General; callers never fail on an
// unrecognized archetype.
type Archetype int

const (
	General Archetype = iota // safe default for unknown keys
	FoodDining
	Transportation
	Shopping
	Entertainment
	BillsUtilities
	HealthFitness
	HomeGarden
	Technology
	Travel
	Education
	Salary
	Investment
	Freelance
	Business
	GiftBonus
)

var archetypeKeys = map[Archetype]string{
	General:        "general",
	FoodDining:     "food_dining",
	Transportation: "transportation",
	Shopping:       "shopping",
	Entertainment:  "entertainment",
	BillsUtilities: "bills_utilities",
	HealthFitness:  "health_fitness",
	HomeGarden:     "home_garden",
	Technology:     "technology",
	Travel:         "travel",
	Education:      "education",
	Salary:         "salary",
	Investment:     "investment",
	Freelance:      "freelance",
	Business:       "business",
	GiftBonus:      "gift_bonus",
}

// Key returns the stable string key for an archetype.
func (a Archetype) Key() string {
	if k, ok := archetypeKeys[a]; ok {
		return k
	}
	return archetypeKeys[General]
}

// FromKey resolves a string key to an archetype, falling back to
// General for anything unrecognized.
func FromKey(key string) Archetype {
	for a, k := range archetypeKeys {
		if k == key {
			return a
		}
	}
	return General
}

// All returns every archetype in declaration order, General included.
// The order is stable so scoring passes that range over it produce the
// same suggestion order on every run.
func All() []Archetype {
	out := make([]Archetype, 0, len(archetypeKeys))
	for a := General; a <= GiftBonus; a++ {
		out = append(out, a)
	}
	return out
}

// Defaults carries the material needed to create a category for an
// archetype when the user has none yet.
type Defaults struct {
	Name  string
	Type  domain.CategoryType
	Icon  string
	Color string
}

var archetypeDefaults = map[Archetype]Defaults{
	General:        {Name: "General", Type: domain.CategoryBoth, Icon: "tag", Color: "#6B7280"},
	FoodDining:     {Name: "Food & Dining", Type: domain.CategoryExpense, Icon: "utensils", Color: "#EF4444"},
	Transportation: {Name: "Transportation", Type: domain.CategoryExpense, Icon: "car", Color: "#3B82F6"},
	Shopping:       {Name: "Shopping", Type: domain.CategoryExpense, Icon: "shopping-cart", Color: "#8B5CF6"},
	Entertainment:  {Name: "Entertainment", Type: domain.CategoryExpense, Icon: "tv", Color: "#F59E0B"},
	BillsUtilities: {Name: "Bills & Utilities", Type: domain.CategoryExpense, Icon: "file-text", Color: "#EF4444"},
	HealthFitness:  {Name: "Health & Fitness", Type: domain.CategoryExpense, Icon: "heart", Color: "#10B981"},
	HomeGarden:     {Name: "Home & Garden", Type: domain.CategoryExpense, Icon: "home", Color: "#6B7280"},
	Technology:     {Name: "Technology", Type: domain.CategoryExpense, Icon: "smartphone", Color: "#3B82F6"},
	Travel:         {Name: "Travel", Type: domain.CategoryExpense, Icon: "plane", Color: "#0EA5E9"},
	Education:      {Name: "Education", Type: domain.CategoryExpense, Icon: "book", Color: "#6366F1"},
	Salary:         {Name: "Salary", Type: domain.CategoryIncome, Icon: "wallet", Color: "#10B981"},
	Investment:     {Name: "Investment", Type: domain.CategoryIncome, Icon: "trending-up", Color: "#3B82F6"},
	Freelance:      {Name: "Freelance", Type: domain.CategoryIncome, Icon: "briefcase", Color: "#8B5CF6"},
	Business:       {Name: "Business", Type: domain.CategoryIncome, Icon: "building", Color: "#F59E0B"},
	GiftBonus:      {Name: "Gift & Bonus", Type: domain.CategoryIncome, Icon: "gift", Color: "#EC4899"},
}

// DefaultsFor returns the category defaults for an archetype.
func DefaultsFor(a Archetype) Defaults {
	if d, ok := archetypeDefaults[a]; ok {
		return d
	}
	return archetypeDefaults[General]
}

// AmountClass groups archetypes for the amount heuristic.
type AmountClass int

const (
	AmountNone       AmountClass = iota
	AmountLargeFixed             // rent, insurance, utilities
	AmountDailySmall             // coffee, snacks
	AmountRetail                 // mid-range purchases
)

var amountClasses = map[AmountClass]Archetype{
	AmountLargeFixed: BillsUtilities,
	AmountDailySmall: FoodDining,
	AmountRetail:     Shopping,
}

// ArchetypeForAmountClass maps an amount class to its representative
// archetype.
func ArchetypeForAmountClass(c AmountClass) (Archetype, bool) {
	a, ok := amountClasses[c]
	return a, ok
}
