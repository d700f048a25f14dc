package domain

// Quality is the four-tier roll applied to crafted items. It is a tiering
// system separate from Rarity: quality scales the recipe's numeric output,
// while the rarity carried by a crafted item is purely cosmetic.
type Quality string

const (
	QualityNormal     Quality = "normal"
	QualityFine       Quality = "fine"
	QualitySuperior   Quality = "superior"
	QualityMasterwork Quality = "masterwork"
)

// Multiplier returns the scaling factor applied to a recipe's numeric
// output fields.
func (q Quality) Multiplier() float64 {
	switch q {
	case QualityFine:
		return 1.2
	case QualitySuperior:
		return 1.5
	case QualityMasterwork:
		return 2.0
	default:
		return 1.0
	}
}

// ToRarity maps the quality to the cosmetic rarity shown on crafted items.
func (q Quality) ToRarity() Rarity {
	switch q {
	case QualityFine:
		return RarityUncommon
	case QualitySuperior:
		return RarityRare
	case QualityMasterwork:
		return RarityEpic
	default:
		return RarityCommon
	}
}

// DisplayPrefix returns the name decoration for crafted items, e.g.
// "superior Iron Sword". Normal quality adds nothing.
func (q Quality) DisplayPrefix() string {
	if q == QualityNormal || q == "" {
		return ""
	}
	return string(q) + " "
}
