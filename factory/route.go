package factory

// Build routes are fixed per variant. Soft-bond resilients take the long
// path through both bonding stations, basic resilients skip the soft-side
// work, and press-on tyres start directly at their own bonding station.
var variantRoutes = map[TyreVariant][]BuildStep{
	ResilientSoftBond: {
		StepWrapInnerHeal,
		StepApplyBead,
		StepWrapHeal,
		StepWrapResilientBond,
		StepWrapSoft,
		StepWrapTread,
		StepPress,
	},
	ResilientBasic: {
		StepWrapInnerHeal,
		StepApplyBead,
		StepWrapHeal,
		StepWrapTread,
		StepPress,
	},
	PressOn: {
		StepWrapPressOnBond,
		StepWrapSoft,
		StepWrapTread,
		StepPress,
	},
}

// RouteFor returns the ordered build steps for a variant. The slice is a
// copy; callers may keep it across events without aliasing the table.
func RouteFor(v TyreVariant) ([]BuildStep, error) {
	route, ok := variantRoutes[v]
	if !ok {
		return nil, &UnroutableVariantError{Variant: v}
	}
	out := make([]BuildStep, len(route))
	copy(out, route)
	return out, nil
}

// AllBuildSteps lists every station-backed step in a stable order, used to
// construct the station pool and to order per-station report sections.
func AllBuildSteps() []BuildStep {
	return []BuildStep{
		StepWrapInnerHeal,
		StepApplyBead,
		StepWrapHeal,
		StepWrapResilientBond,
		StepWrapPressOnBond,
		StepWrapSoft,
		StepWrapTread,
		StepPress,
	}
}

// StationName is the resource name backing a build step. Each step owns
// exactly one single-capacity station.
func StationName(step BuildStep) string {
	return string(step)
}
