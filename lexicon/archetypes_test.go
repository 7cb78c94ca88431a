package lexicon_test

import (
	"testing"

	"github.com/HananelSabag/SpendWise-sub004/lexicon"
)

func TestFromKey_RoundTripAndFallback(t *testing.T) {
	for _, a := range lexicon.All() {
		if got := lexicon.FromKey(a.Key()); got != a {
			t.Errorf("round trip failed for %v (key %q)", a, a.Key())
		}
	}
	if got := lexicon.FromKey("no-such-archetype"); got != lexicon.General {
		t.Errorf("unknown key must fall back to General, got %v", got)
	}
}

func TestDefaultsFor_EveryArchetypeHasDefaults(t *testing.T) {
	for _, a := range lexicon.All() {
		d := lexicon.DefaultsFor(a)
		if d.Name == "" || d.Icon == "" || d.Color == "" {
			t.Errorf("archetype %v has incomplete defaults: %+v", a, d)
		}
	}
}

func TestArchetypeForAmountClass(t *testing.T) {
	cases := map[lexicon.AmountClass]lexicon.Archetype{
		lexicon.AmountLargeFixed: lexicon.BillsUtilities,
		lexicon.AmountDailySmall: lexicon.FoodDining,
		lexicon.AmountRetail:     lexicon.Shopping,
	}
	for class, want := range cases {
		got, ok := lexicon.ArchetypeForAmountClass(class)
		if !ok || got != want {
			t.Errorf("class %v: expected %v, got %v (ok=%v)", class, want, got, ok)
		}
	}
}
