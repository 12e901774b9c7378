package schema

// =============================================================================
// Migration - Forward Schema Upgrades
// =============================================================================

// Migration is one version-pair step in the migration chain. Steps must be
// idempotent and field-additive: they fill in fields the older schema
// lacked and never overwrite values that are present.
type Migration struct {
	From  string
	To    string
	Apply func(*Document)
}

// chain is the ordered list of migration steps. New schema bumps append a
// step here; existing steps are never edited.
var chain = []Migration{
	{From: "1.0.0", To: "1.1.0", Apply: addRotationDefaults},
}

// Migrate upgrades a document to CurrentVersion in place and returns it.
//
// The document's version selects where in the chain to start; a missing
// version means "1.0.0". Each matching step is applied in order, then the
// version is stamped to CurrentVersion unconditionally, so a document that
// is already current is simply re-stamped. Versions that match no step are
// treated the same way: migration is total over arbitrary input, and
// structural problems are validation's concern.
//
// Migrate mutates nested structures in place. Callers needing the original
// must clone before calling.
func Migrate(doc *Document) *Document {
	version := normalizeVersion(doc.Version)
	for _, m := range chain {
		if version == m.From {
			m.Apply(doc)
			version = m.To
		}
	}
	doc.Version = CurrentVersion
	return doc
}

// normalizeVersion maps legacy version spellings onto chain keys.
func normalizeVersion(v string) string {
	switch v {
	case "", "1.0":
		return "1.0.0"
	default:
		return v
	}
}

// addRotationDefaults is the 1.0 → 1.1 step: every wall, the office, every
// partition, every equipment array and each unit nested inside it, and
// every free-standing component gains rotation = 0 when the field is
// absent. Existing rotations are never overwritten.
func addRotationDefaults(doc *Document) {
	for i := range doc.Walls {
		if doc.Walls[i].Rotation == nil {
			doc.Walls[i].Rotation = zeroRotation()
		}
	}
	if doc.Office != nil && doc.Office.Rotation == nil {
		doc.Office.Rotation = zeroRotation()
	}
	for i := range doc.Partitions {
		if doc.Partitions[i].Rotation == nil {
			doc.Partitions[i].Rotation = zeroRotation()
		}
	}
	for i := range doc.EquipmentArrays {
		arr := &doc.EquipmentArrays[i]
		if arr.Rotation == nil {
			arr.Rotation = zeroRotation()
		}
		for j := range arr.Units {
			if arr.Units[j].Rotation == nil {
				arr.Units[j].Rotation = zeroRotation()
			}
		}
	}
	for i := range doc.Components {
		if doc.Components[i].Rotation == nil {
			doc.Components[i].Rotation = zeroRotation()
		}
	}
}

// zeroRotation returns a fresh pointer so documents never share rotation
// storage.
func zeroRotation() *float64 {
	zero := 0.0
	return &zero
}
