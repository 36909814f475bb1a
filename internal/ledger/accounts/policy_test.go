package accounts

import (
	"reflect"
	"testing"
)

func TestEditableFields(t *testing.T) {
	cases := []struct {
		name    string
		account Account
		ctx     PolicyContext
		want    []string
	}{
		{
			name:    "system managed is frozen",
			account: Account{SystemManaged: true},
			ctx:     PolicyContext{ChildrenAllContra: true},
			want:    nil,
		},
		{
			name:    "leaf without entries",
			account: Account{},
			ctx:     PolicyContext{ChildrenAllContra: true},
			want:    []string{"description", "accountType", "acceptsOppositeSide"},
		},
		{
			name:    "children lock the type",
			account: Account{},
			ctx:     PolicyContext{ChildCount: 2, ChildrenAllContra: true},
			want:    []string{"description", "acceptsOppositeSide"},
		},
		{
			name:    "entries lock the type",
			account: Account{},
			ctx:     PolicyContext{EntryCount: 5, ChildrenAllContra: true},
			want:    []string{"description", "acceptsOppositeSide"},
		},
		{
			name:    "mixed children block the contra toggle",
			account: Account{},
			ctx:     PolicyContext{ChildCount: 2, ChildrenAllContra: false},
			want:    []string{"description"},
		},
		{
			name:    "contra parent pins the toggle on",
			account: Account{AcceptsOppositeSide: true},
			ctx:     PolicyContext{ParentIsContra: true},
			want:    []string{"description", "accountType"},
		},
		{
			name:    "contra without contra parent may switch off",
			account: Account{AcceptsOppositeSide: true},
			ctx:     PolicyContext{},
			want:    []string{"description", "accountType", "acceptsOppositeSide"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FieldNames(EditableFields(tc.account, tc.ctx))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("fields = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDeletable(t *testing.T) {
	if Deletable(Account{SystemManaged: true}, PolicyContext{}) {
		t.Fatal("system-managed accounts must not be deletable")
	}
	if Deletable(Account{}, PolicyContext{ChildCount: 1}) {
		t.Fatal("accounts with children must not be deletable")
	}
	if Deletable(Account{}, PolicyContext{EntryCount: 1}) {
		t.Fatal("accounts with entries must not be deletable")
	}
	if !Deletable(Account{}, PolicyContext{}) {
		t.Fatal("bare leaf should be deletable")
	}
}
