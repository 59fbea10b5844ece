package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/landtrust/internal/models"
)

const maxMessageLength = 4000

type MessageGateway interface {
	InsertMessage(ctx context.Context, actor models.Identity, message *models.Message) error
	ListMessages(ctx context.Context, actor models.Identity, applicationID string) ([]models.Message, error)
}

type MessageService struct {
	gateway MessageGateway
}

func NewMessageService(gateway MessageGateway) *MessageService {
	return &MessageService{gateway: gateway}
}

// Send appends one message and returns it as stored, id and timestamp included.
func (service *MessageService) Send(ctx context.Context, actor models.Identity, applicationID string, text string) (models.Message, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return models.Message{}, ErrMessageEmpty
	}
	if utf8.RuneCountInString(body) > maxMessageLength {
		return models.Message{}, ErrMessageTooLong
	}

	message := models.Message{
		ApplicationID: applicationID,
		SenderID:      actor.UserID,
		IsAdmin:       actor.IsAdmin(),
		Message:       body,
	}
	if err := service.gateway.InsertMessage(ctx, actor, &message); err != nil {
		return models.Message{}, fmt.Errorf("send message: %w", err)
	}
	return message, nil
}

func (service *MessageService) List(ctx context.Context, actor models.Identity, applicationID string) ([]models.Message, error) {
	messages, err := service.gateway.ListMessages(ctx, actor, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}
