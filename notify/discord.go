package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/kickoff-academy/field-booking-backend/discord"
)

var discordTitles = map[EventType]string{
	EventAdminAlert:       "New booking :calendar:",
	EventBookingConfirmed: "Booking confirmed :white_check_mark:",
	EventBookingCancelled: "Booking cancelled :x:",
	EventBookingCompleted: "Booking completed :checkered_flag:",
}

// DiscordNotifier mirrors staff-facing events into an academy channel.
// Customer-only events are ignored.
type DiscordNotifier struct {
	client    discord.DiscordClient
	channelID string
}

func NewDiscordNotifier(client discord.DiscordClient, channelID string) *DiscordNotifier {
	return &DiscordNotifier{client: client, channelID: channelID}
}

func (d *DiscordNotifier) Notify(ctx context.Context, event Event) error {
	title, ok := discordTitles[event.Type]

	if !ok {
		return nil
	}

	if event.Type == EventBookingCancelled && event.CancelledByAdmin {
		title = "Booking cancelled by academy :x:"
	}

	message := discord.Message{
		Embeds: []discord.Embed{{
			Type:      "rich",
			Title:     title,
			Timestamp: event.OccurredAt.Format(time.RFC3339),
			Fields: []discord.EmbedField{
				{Name: "Field", Value: event.FieldName, Inline: true},
				{Name: "Booked by", Value: event.BookedBy, Inline: true},
				{Name: "When", Value: fmt.Sprintf("<t:%d:F> - <t:%d:t>", event.StartTime.Unix(), event.EndTime.Unix())},
				{Name: "Cost", Value: event.TotalCost, Inline: true},
				{Name: "Status", Value: event.Status, Inline: true},
			},
		}},
	}

	if err := d.client.SendMessage(ctx, d.channelID, message); err != nil {
		return fmt.Errorf("discord notification for booking %v: %w", event.BookingID, err)
	}

	return nil
}
