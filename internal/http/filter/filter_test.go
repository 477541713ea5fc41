package filter_test

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/procurement/internal/http/filter"
	"github.com/MrJamesThe3rd/procurement/internal/purchase"
)

func TestParse(t *testing.T) {
	type testCase struct {
		name    string
		query   string
		want    purchase.ListFilter
		wantErr string
	}

	tests := []testCase{
		{name: "Empty", query: ""},
		{
			name:  "AllFields",
			query: "status=Approved&priority=Urgent&department=MDRRMO&dateFrom=2025-01-01&dateTo=2025-12-31&search=oil&minAmount=100&maxAmount=2500.50",
			want: purchase.ListFilter{
				Status:     new(purchase.StatusApproved),
				Priority:   new(purchase.PriorityUrgent),
				Department: "MDRRMO",
				DateFrom:   "2025-01-01",
				DateTo:     "2025-12-31",
				Search:     "oil",
				MinAmount:  new(decimal.NewFromInt(100)),
				MaxAmount:  new(decimal.RequireFromString("2500.50")),
			},
		},
		{name: "AllMeansUnset", query: "status=all&priority=all"},
		{name: "BadMin", query: "minAmount=lots", wantErr: `invalid minAmount "lots"`},
		{name: "BadMax", query: "maxAmount=1,000", wantErr: `invalid maxAmount "1,000"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := filter.Parse(q)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.Priority, got.Priority)
			assert.Equal(t, tt.want.Department, got.Department)
			assert.Equal(t, tt.want.DateFrom, got.DateFrom)
			assert.Equal(t, tt.want.DateTo, got.DateTo)
			assert.Equal(t, tt.want.Search, got.Search)
			assertDecimal(t, tt.want.MinAmount, got.MinAmount)
			assertDecimal(t, tt.want.MaxAmount, got.MaxAmount)
		})
	}
}

func assertDecimal(t *testing.T, want, got *decimal.Decimal) {
	t.Helper()

	if want == nil {
		assert.Nil(t, got)
		return
	}

	require.NotNil(t, got)
	assert.True(t, want.Equal(*got), "want %s, got %s", want, got)
}

func TestPage(t *testing.T) {
	type testCase struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
		wantErr    string
	}

	tests := []testCase{
		{name: "Defaults", query: "", wantLimit: 100},
		{name: "Explicit", query: "limit=20&offset=40", wantLimit: 20, wantOffset: 40},
		{name: "Clamped", query: "limit=5000", wantLimit: 1000},
		{name: "ZeroLimit", query: "limit=0", wantErr: `invalid limit "0"`},
		{name: "NegativeOffset", query: "offset=-1", wantErr: `invalid offset "-1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			var f purchase.ListFilter

			err = filter.Page(q, &f, 100, 1000)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, f.Limit)
			assert.Equal(t, tt.wantOffset, f.Offset)
		})
	}
}
