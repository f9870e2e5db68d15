package factory

// VariantSet selects which tyre-type codes a factory accepts. The two-variant
// plant builds only the soft-bond and press-on families; the three-variant
// plant adds the basic resilient line.
type VariantSet string

const (
	VariantSetTwo   VariantSet = "two"
	VariantSetThree VariantSet = "three"
)

// Tyre-type codes carried in the first PID segment. Fixed by product family,
// not configurable: the catalog only decides which of them are enabled.
const (
	codeResilientSoftBond = "101"
	codePressOn           = "102"
	codeResilientBasic    = "103"
)

// Catalog resolves the four dot-separated PID code segments. Tyre-type codes
// are fixed per variant set; brand, tread and size tables are open-ended
// lookups supplied at configuration time.
type Catalog struct {
	variants map[string]TyreVariant
	brands   map[string]string
	treads   map[string]string
	sizes    map[string]SizeClass
}

// NewCatalog builds a catalog for the given variant set and lookup tables.
// The size table maps size codes to catalog size-class names and must contain
// only valid classes; config validation enforces that before construction.
func NewCatalog(set VariantSet, brands, treads map[string]string, sizes map[string]SizeClass) *Catalog {
	variants := map[string]TyreVariant{
		codeResilientSoftBond: ResilientSoftBond,
		codePressOn:           PressOn,
	}
	if set == VariantSetThree {
		variants[codeResilientBasic] = ResilientBasic
	}
	return &Catalog{
		variants: variants,
		brands:   brands,
		treads:   treads,
		sizes:    sizes,
	}
}

// Variant resolves a tyre-type code to its product family.
func (c *Catalog) Variant(code string) (TyreVariant, bool) {
	v, ok := c.variants[code]
	return v, ok
}

// Brand resolves a brand code to its display name.
func (c *Catalog) Brand(code string) (string, bool) {
	b, ok := c.brands[code]
	return b, ok
}

// Tread resolves a tread-pattern code to its display name.
func (c *Catalog) Tread(code string) (string, bool) {
	t, ok := c.treads[code]
	return t, ok
}

// Size resolves a size code to its size class.
func (c *Catalog) Size(code string) (SizeClass, bool) {
	s, ok := c.sizes[code]
	return s, ok
}
