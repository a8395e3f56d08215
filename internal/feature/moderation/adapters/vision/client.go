// Package vision はGoogle Cloud Vision APIのSafeSearchを使った画像審査クライアントを提供します。
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"erasmus_backend/internal/feature/moderation/domain/entity"
	"erasmus_backend/internal/feature/moderation/usecase"
)

// VisionImageInspector はGoogle Cloud Vision APIを使用して画像を審査します。
type VisionImageInspector struct {
	client *gvision.ImageAnnotatorClient
}

// VisionImageInspectorがImageInspectorを実装していることをコンパイル時に検証します。
var _ usecase.ImageInspector = (*VisionImageInspector)(nil)

// NewVisionImageInspector はADCを使用してVisionImageInspectorの新しいインスタンスを生成します。
func NewVisionImageInspector(ctx context.Context) (*VisionImageInspector, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionImageInspector{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (v *VisionImageInspector) Close() error {
	return v.client.Close()
}

// InspectImage は画像バイト列にSafeSearch検出をかけて判定します。
func (v *VisionImageInspector) InspectImage(ctx context.Context, imageData []byte) (entity.Verdict, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: imageData},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_SAFE_SEARCH_DETECTION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return entity.Verdict{}, fmt.Errorf("vision API request failed: %w", err)
	}
	if len(resp.Responses) == 0 {
		return entity.Verdict{}, fmt.Errorf("vision API returned no response")
	}
	if resp.Responses[0].Error != nil {
		return entity.Verdict{}, fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}

	return VerdictFromSafeSearch(resp.Responses[0].SafeSearchAnnotation), nil
}

// VerdictFromSafeSearch はアダルト・暴力・きわどい表現のいずれかがLIKELY以上なら拒否とします。
// 注釈がない場合は許可します。
func VerdictFromSafeSearch(a *visionpb.SafeSearchAnnotation) entity.Verdict {
	if a == nil {
		return entity.Allow()
	}
	checks := []struct {
		reason string
		value  visionpb.Likelihood
	}{
		{"adult", a.GetAdult()},
		{"violence", a.GetViolence()},
		{"racy", a.GetRacy()},
	}
	for _, c := range checks {
		if c.value >= visionpb.Likelihood_LIKELY {
			return entity.Reject(c.reason)
		}
	}
	return entity.Allow()
}
