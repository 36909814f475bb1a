package entries

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1234.5", "R$ 1.234,50"},
		{"0", "R$ 0,00"},
		{"-20", "R$ -20,00"},
	}
	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.in)
		if err != nil {
			t.Fatal(err)
		}
		if got := FormatAmount(d); got != tc.want {
			t.Fatalf("FormatAmount(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInputCandidateParsesDate(t *testing.T) {
	in := Input{CompetencyDate: "2026-05-02"}
	c := in.Candidate()
	if c.CompetencyDate.IsZero() {
		t.Fatal("date should parse")
	}
	if got := c.CompetencyDate.Format("2006-01-02"); got != "2026-05-02" {
		t.Fatalf("date = %s", got)
	}

	bad := Input{CompetencyDate: "02/05/2026"}
	if !bad.Candidate().CompetencyDate.IsZero() {
		t.Fatal("unparseable date must stay zero")
	}
}
