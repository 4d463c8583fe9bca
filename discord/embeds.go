package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"matsuri/models"
)

// formatDay renders a day's combined time range for an embed field.
func formatDay(day []models.TimeRange) string {
	merged := models.CombineDay(day)
	if merged == nil {
		return "なし"
	}
	return fmt.Sprintf("%s - %s", merged.StartTime, merged.EndTime)
}

func formatLocations(locations []models.Location) string {
	if len(locations) == 0 {
		return "未定"
	}
	parts := make([]string, 0, len(locations))
	for _, l := range locations {
		switch l.Type {
		case models.LocationIndoor:
			parts = append(parts, fmt.Sprintf("%s %s", l.Building, l.Room))
		case models.LocationOutdoor:
			parts = append(parts, l.Name)
		}
	}
	return strings.Join(parts, ", ")
}

func (d *Webhook) planURL(id string) string {
	return fmt.Sprintf("%s/v1/plans/%s", d.baseURL, id)
}

func (d *Webhook) SendCreatePlan(ctx context.Context, id string, plan models.Plan) error {
	embed := map[string]any{
		"title": fmt.Sprintf("企画が作成されました: %s", plan.PlanName),
		"url":   d.planURL(id),
		"fields": []map[string]any{
			embedField("ID", id, true),
			embedField("団体", plan.OrganizationName, true),
			embedField("種別", plan.Type, true),
			embedField("1日目", formatDay(plan.Schedule.Day1), true),
			embedField("2日目", formatDay(plan.Schedule.Day2), true),
			embedField("場所", formatLocations(plan.Location), false),
		},
	}
	return d.sendWebhook(ctx, map[string]any{"embeds": []any{embed}})
}

func (d *Webhook) SendUpdatePlan(ctx context.Context, id string, patch map[string]any) error {
	changed, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	embed := map[string]any{
		"title": fmt.Sprintf("企画が更新されました: %s", id),
		"url":   d.planURL(id),
		"fields": []map[string]any{
			embedField("変更内容", fmt.Sprintf("```json\n%s\n```", changed), false),
		},
	}
	return d.sendWebhook(ctx, map[string]any{"embeds": []any{embed}})
}

func (d *Webhook) SendDeletePlan(ctx context.Context, id string) error {
	embed := map[string]any{
		"title": fmt.Sprintf("企画が削除されました: %s", id),
	}
	return d.sendWebhook(ctx, map[string]any{"embeds": []any{embed}})
}

func (d *Webhook) SendBulkCreatePlan(ctx context.Context, count int) error {
	embed := map[string]any{
		"title": fmt.Sprintf("%d 件の企画が一括登録されました", count),
	}
	return d.sendWebhook(ctx, map[string]any{"embeds": []any{embed}})
}

func (d *Webhook) SendUpdatePlanIcon(ctx context.Context, id, contentType string) error {
	embed := map[string]any{
		"title": fmt.Sprintf("企画アイコンが更新されました: %s", id),
		"image": map[string]any{"url": d.planURL(id) + "/icon"},
		"fields": []map[string]any{
			embedField("Content-Type", contentType, true),
		},
	}
	return d.sendWebhook(ctx, map[string]any{"embeds": []any{embed}})
}
