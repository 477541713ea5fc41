package purchase

import (
	"fmt"
	"time"
)

// FormatIdentifier renders a business number such as "2025-PR-007".
// Sequences past 999 simply widen ("2025-PR-1000").
func FormatIdentifier(year int, prefix string, seq int) string {
	return fmt.Sprintf("%d-%s-%03d", year, prefix, seq)
}

// GenerateIdentifier derives a number from a record count: the next record
// after count existing ones gets count+1.
func GenerateIdentifier(prefix string, count int, now time.Time) string {
	return FormatIdentifier(now.Year(), prefix, count+1)
}

type identifiers struct {
	pr, po, obr, dv string
}

func newIdentifiers(year, seq int) identifiers {
	return identifiers{
		pr:  FormatIdentifier(year, PrefixPR, seq),
		po:  FormatIdentifier(year, PrefixPO, seq),
		obr: FormatIdentifier(year, PrefixOBR, seq),
		dv:  FormatIdentifier(year, PrefixDV, seq),
	}
}
