package notifier

import (
	"fmt"
	"log"

	"github.com/William2897/aoy-registration-form/internal/models"
	"github.com/bwmarrin/discordgo"
)

// Notifier announces new registrations to the organizing committee.
type Notifier interface {
	NotifyRegistration(reg *models.Registration) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(botToken, channelID string) (*DiscordNotifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, err
	}
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}, nil
}

func (n *DiscordNotifier) NotifyRegistration(reg *models.Registration) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	familyStr := ""
	if reg.HasFamily {
		familyStr = fmt.Sprintf("\n**Family Members:** %d", len(reg.FamilyMembers))
	}
	earlyBirdStr := ""
	if reg.IsEarlyBird {
		earlyBirdStr = " (early bird)"
	}

	message := fmt.Sprintf("🎉 **New Registration**\n**Name:** %s\n**Category:** %s\n**Payment:** %s%s\n**Total:** RM %.2f%s",
		reg.FullName,
		reg.OccupationType,
		reg.PaymentMethod,
		familyStr,
		reg.FinalTotal,
		earlyBirdStr,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}
