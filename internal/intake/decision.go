package intake

import (
	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
)

// DecideRouting applies the shop's automation settings to a classified
// order. Settings are passed in explicitly; the decision never reads ambient
// state. Gates run before the auto-submit flag: a disabled integration, an
// order under the minimum value, or an excluded tag all force manual
// approval.
func DecideRouting(order WebhookOrder, totalCents int64, settings *models.AutoOrderSettings) Routing {
	if settings == nil || !settings.Enabled {
		return RoutingPendingApproval
	}
	if settings.MinOrderValueCents > 0 && totalCents < settings.MinOrderValueCents {
		return RoutingPendingApproval
	}
	if tagsIntersect(order.TagList(), settings.ExcludedTags) {
		return RoutingPendingApproval
	}
	if settings.AutoSubmit {
		return RoutingAutoSubmit
	}
	return RoutingPendingApproval
}

func tagsIntersect(orderTags, excluded []string) bool {
	if len(orderTags) == 0 || len(excluded) == 0 {
		return false
	}
	set := make(map[string]bool, len(excluded))
	for _, tag := range excluded {
		set[tag] = true
	}
	for _, tag := range orderTags {
		if set[tag] {
			return true
		}
	}
	return false
}
