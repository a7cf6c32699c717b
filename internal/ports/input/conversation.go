package input

import (
	"context"

	"schedbot/internal/domain/entities"
)

// ConversationUseCase drives one dialogue turn. The conversation object is
// passed in and the successor returned; a nil conversation in either
// direction means idle. The caller owns the slot and must not run two turns
// for the same conversation concurrently.
type ConversationUseCase interface {
	HandleTurn(ctx context.Context, locale string, conv *entities.Conversation, text string) (*entities.Conversation, entities.Reply)
}
