package source

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{id: "https://files.hdfcfund.com/s3fs-public/KIM/HDFC-Mid-Cap-Fund.pdf", want: "HDFC Mid Cap Fund - KIM"},
		{id: "https://files.hdfcfund.com/SID/HDFC_Large_Cap_Fund.pdf", want: "HDFC Large Cap Fund - SID"},
		{id: "https://www.hdfcfund.com/explore/mutual-funds/hdfc-small-cap-fund/direct", want: "HDFC Small Cap Fund - Fund Page"},
		{id: "https://files.hdfcfund.com/factsheets/flexi-cap.pdf", want: "HDFC Flexi Cap Fund - Factsheet"},
		{id: "https://www.hdfcfund.com/investor-services/statements", want: "HDFC Fund - Document"},
		{id: "data/raw/hdfc_service_faqs.json", want: "hdfc_service_faqs.json"},
		{id: "", want: "Source Document"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, DisplayName(tt.id), tt.want)
		})
	}
}

func TestDisplayNames(t *testing.T) {
	assert.DeepEqual(t, DisplayNames([]string{"a.json", ""}), []string{"a.json", "Source Document"})
}
