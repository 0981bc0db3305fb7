// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/atotto/clipboard"
	"github.com/slack-go/slack"

	"github.com/jeranaias/meetcost/internal/util"
)

// =============================================================================
// SHARING
// =============================================================================

// LinkedInShareEndpoint is LinkedIn's share-offsite URL.
const LinkedInShareEndpoint = "https://www.linkedin.com/sharing/share-offsite/"

// ErrNoWebhook is returned by PostSlack when no webhook URL is configured.
var ErrNoWebhook = errors.New("no Slack webhook configured (set share.slack_webhook or MEETCOST_SLACK_WEBHOOK)")

// ShareText is the one-line social post for s.
func ShareText(s *Summary) string {
	return fmt.Sprintf("Just tracked a %s meeting that cost %s. Time is money! 💰⏰",
		util.FormatClock(s.Elapsed), util.FormatMoney(s.TotalCost))
}

// LinkedInURL builds the share link for s pointing at pageURL.
func LinkedInURL(s *Summary, pageURL string) string {
	q := url.Values{}
	q.Set("url", pageURL)
	q.Set("summary", ShareText(s))
	return LinkedInShareEndpoint + "?" + q.Encode()
}

// SlackMessage builds the incoming-webhook payload for s.
func SlackMessage(s *Summary) *slack.WebhookMessage {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType,
			fmt.Sprintf("%s: %s", s.DisplayName(), util.FormatMoney(s.TotalCost)),
			false, false,
		),
	)

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, "*Duration*\n"+util.FormatClock(s.Elapsed), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Attendees*\n%d", s.Attendees), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*Burn rate*\n"+util.FormatMoney(s.HourlyRate)+"/hr", false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*Heat*\n"+string(s.Classification.Heat), false, false),
	}
	if s.Outcome != "" {
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType, "*Outcome*\n"+s.Outcome.Label(), false, false))
	}
	details := slack.NewSectionBlock(nil, fields, nil)

	blocks := []slack.Block{header, details}
	if s.Classification.Comparison != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, "That's "+s.Classification.Comparison, false, false),
		))
	}

	return &slack.WebhookMessage{
		Text:   ShareText(s),
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
}

// PostSlack posts s to a Slack incoming webhook.
func PostSlack(ctx context.Context, webhook string, s *Summary) error {
	if webhook == "" {
		return ErrNoWebhook
	}
	if s == nil {
		return errNilSummary
	}
	if err := slack.PostWebhookContext(ctx, webhook, SlackMessage(s)); err != nil {
		return fmt.Errorf("post to Slack: %w", err)
	}
	return nil
}

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard is not available on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
