package ime

// attrList is a nested attribute list scoped to a single call.
// Callers release it with defer immediately after construction.
type attrList struct {
	native Native
	list   NestedList
}

// newSpotAttrs builds the one-entry list {XNSpotLocation: spot}.
// A nil list can only come from a malformed attribute name or value, so it
// panics rather than returning an error.
func newSpotAttrs(native Native, spot Point) *attrList {
	list := native.SpotList(spot)
	if list == nil {
		panic("ime: XVaCreateNestedList returned NULL")
	}
	return &attrList{native: native, list: list}
}

func (a *attrList) release() {
	if a.list == nil {
		return
	}
	a.native.FreeList(a.list)
	a.list = nil
}
