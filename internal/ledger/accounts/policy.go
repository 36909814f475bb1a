package accounts

// Field names an account attribute callers may attempt to change.
type Field string

const (
	FieldDescription         Field = "description"
	FieldAccountType         Field = "accountType"
	FieldAcceptsOppositeSide Field = "acceptsOppositeSide"
)

// PolicyContext carries the pre-fetched structural and transactional facts
// the editability rules depend on. Callers assemble it from the tree snapshot
// and the entry store, the policy itself never traverses anything.
type PolicyContext struct {
	ChildCount        int
	EntryCount        int64
	ParentIsContra    bool
	ChildrenAllContra bool
}

// Editable reports whether the account may be changed at all. System-managed
// accounts are frozen.
func Editable(a Account) bool {
	return !a.SystemManaged
}

// EditableFields returns the set of fields a caller may currently change.
//
// description is always mutable on an editable account. accountType may only
// flip between analytic and synthetic while the account has neither children
// nor entries. acceptsOppositeSide (the contra toggle) may be switched on
// only when every current child is already a contra-account, and switched off
// only when the parent is not itself one, so contra status never goes mixed
// along a parent chain.
func EditableFields(a Account, ctx PolicyContext) map[Field]bool {
	fields := make(map[Field]bool)
	if !Editable(a) {
		return fields
	}
	fields[FieldDescription] = true
	if ctx.ChildCount == 0 && ctx.EntryCount == 0 {
		fields[FieldAccountType] = true
	}
	if a.AcceptsOppositeSide {
		if !ctx.ParentIsContra {
			fields[FieldAcceptsOppositeSide] = true
		}
	} else if ctx.ChildrenAllContra {
		fields[FieldAcceptsOppositeSide] = true
	}
	return fields
}

// Deletable reports whether the account may be removed: no children, no
// entries on either side, not system-managed.
func Deletable(a Account, ctx PolicyContext) bool {
	return !a.SystemManaged && ctx.ChildCount == 0 && ctx.EntryCount == 0
}

// FieldNames flattens the editable set for transport.
func FieldNames(fields map[Field]bool) []string {
	ordered := []Field{FieldDescription, FieldAccountType, FieldAcceptsOppositeSide}
	var out []string
	for _, f := range ordered {
		if fields[f] {
			out = append(out, string(f))
		}
	}
	return out
}
