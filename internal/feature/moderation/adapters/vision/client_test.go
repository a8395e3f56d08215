package vision

import (
	"testing"

	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/stretchr/testify/assert"

	"erasmus_backend/internal/feature/moderation/domain/entity"
)

func TestVerdictFromSafeSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		annotation *visionpb.SafeSearchAnnotation
		expected   entity.Verdict
	}{
		{"no annotation", nil, entity.Allow()},
		{"all unlikely", &visionpb.SafeSearchAnnotation{
			Adult: visionpb.Likelihood_VERY_UNLIKELY, Violence: visionpb.Likelihood_UNLIKELY, Racy: visionpb.Likelihood_POSSIBLE,
		}, entity.Allow()},
		{"adult likely", &visionpb.SafeSearchAnnotation{Adult: visionpb.Likelihood_LIKELY}, entity.Reject("adult")},
		{"violence very likely", &visionpb.SafeSearchAnnotation{Violence: visionpb.Likelihood_VERY_LIKELY}, entity.Reject("violence")},
		{"racy likely", &visionpb.SafeSearchAnnotation{Racy: visionpb.Likelihood_LIKELY}, entity.Reject("racy")},
		// 医療・なりすましは審査対象外
		{"medical ignored", &visionpb.SafeSearchAnnotation{Medical: visionpb.Likelihood_VERY_LIKELY}, entity.Allow()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, VerdictFromSafeSearch(tt.annotation))
		})
	}
}
