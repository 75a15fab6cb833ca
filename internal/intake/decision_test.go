package intake

import (
	"testing"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
)

func TestDecideRoutingGates(t *testing.T) {
	cases := []struct {
		name     string
		settings models.AutoOrderSettings
		order    WebhookOrder
		total    int64
		want     Routing
	}{
		{
			name:     "disabled forces manual",
			settings: models.AutoOrderSettings{Enabled: false, AutoSubmit: true},
			total:    10000,
			want:     RoutingPendingApproval,
		},
		{
			name:     "below minimum despite auto submit",
			settings: models.AutoOrderSettings{Enabled: true, AutoSubmit: true, MinOrderValueCents: 5000, ExcludedTags: []string{"wholesale"}},
			order:    WebhookOrder{Tags: ""},
			total:    4000,
			want:     RoutingPendingApproval,
		},
		{
			name:     "excluded tag forces manual",
			settings: models.AutoOrderSettings{Enabled: true, AutoSubmit: true, ExcludedTags: []string{"wholesale"}},
			order:    WebhookOrder{Tags: "VIP, Wholesale"},
			total:    10000,
			want:     RoutingPendingApproval,
		},
		{
			name:     "gates pass with auto submit",
			settings: models.AutoOrderSettings{Enabled: true, AutoSubmit: true, MinOrderValueCents: 5000},
			total:    5000,
			want:     RoutingAutoSubmit,
		},
		{
			name:     "gates pass without auto submit",
			settings: models.AutoOrderSettings{Enabled: true, AutoSubmit: false},
			total:    10000,
			want:     RoutingPendingApproval,
		},
		{
			name:     "zero minimum means no gate",
			settings: models.AutoOrderSettings{Enabled: true, AutoSubmit: true},
			total:    1,
			want:     RoutingAutoSubmit,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecideRouting(tc.order, tc.total, &tc.settings)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestTagListNormalizes(t *testing.T) {
	order := WebhookOrder{Tags: " VIP,  Wholesale ,,sample"}
	tags := order.TagList()
	want := []string{"vip", "wholesale", "sample"}
	if len(tags) != len(want) {
		t.Fatalf("unexpected tags %v", tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, tags)
		}
	}
}
