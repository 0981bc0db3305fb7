// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/meetcost/internal/export"
)

// slackTimeout bounds the webhook round trip.
const slackTimeout = 10 * time.Second

// defaultPageURL is linked from LinkedIn posts when share.page_url is unset.
const defaultPageURL = "https://github.com/jeranaias/meetcost"

func NewShareCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share a meeting cost on LinkedIn or Slack",
		Long: "Share a meeting cost. Each subcommand takes an optional saved meeting\n" +
			"ID prefix and otherwise shares the meeting in the tracker.",
	}

	cmd.AddCommand(newShareLinkedInCmd(deps))
	cmd.AddCommand(newShareSlackCmd(deps))
	cmd.AddCommand(newShareTextCmd(deps))
	return cmd
}

func newShareLinkedInCmd(deps *Dependencies) *cobra.Command {
	var copyURL bool

	cmd := &cobra.Command{
		Use:   "linkedin [id]",
		Short: "Print a LinkedIn share link",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := deps.loadSummary(args)
			if err != nil {
				return err
			}

			page := deps.settings().Share.PageURL
			if page == "" {
				page = defaultPageURL
			}
			link := export.LinkedInURL(s, page)
			fmt.Fprintln(cmd.OutOrStdout(), link)

			if copyURL {
				return copyWithNotice(cmd, link)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyURL, "copy", "c", false, "copy the link to the clipboard")
	return cmd
}

func newShareSlackCmd(deps *Dependencies) *cobra.Command {
	var webhook string

	cmd := &cobra.Command{
		Use:   "slack [id]",
		Short: "Post the meeting cost to a Slack incoming webhook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := deps.loadSummary(args)
			if err != nil {
				return err
			}

			if webhook == "" {
				webhook = deps.settings().Share.SlackWebhook
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), slackTimeout)
			defer cancel()
			if err := export.PostSlack(ctx, webhook, s); err != nil {
				return NewCommandError("share", "slack", "could not post to Slack", err)
			}

			deps.logger().Info("shared to slack", zap.Float64("cost", s.TotalCost))
			fmt.Fprintln(cmd.OutOrStdout(), RenderOK("Posted to Slack"))
			return nil
		},
	}

	cmd.Flags().StringVar(&webhook, "webhook", "", "incoming webhook URL (default from config)")
	return cmd
}

func newShareTextCmd(deps *Dependencies) *cobra.Command {
	var copyText bool

	cmd := &cobra.Command{
		Use:   "text [id]",
		Short: "Print the one-line share text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := deps.loadSummary(args)
			if err != nil {
				return err
			}
			text := export.ShareText(s)
			fmt.Fprintln(cmd.OutOrStdout(), text)

			if copyText {
				return copyWithNotice(cmd, text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyText, "copy", "c", false, "copy the text to the clipboard")
	return cmd
}

func copyWithNotice(cmd *cobra.Command, text string) error {
	if err := export.CopyToClipboard(text); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), DimStyle.Render("Copied to clipboard."))
	return nil
}
