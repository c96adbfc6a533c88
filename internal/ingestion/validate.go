package ingestion

import "slices"

// RequiredColumns are the canonical labels every upload must carry.
var RequiredColumns = []string{
	LabelIdentifier,
	LabelName,
	LabelAmount,
	LabelDate,
}

// Validate checks that t carries every required column. The returned
// *MissingColumnsError names all absent labels in sorted order.
func Validate(t *Table) error {
	var missing []string
	for _, label := range RequiredColumns {
		if !t.Has(label) {
			missing = append(missing, label)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return &MissingColumnsError{Missing: missing}
}
