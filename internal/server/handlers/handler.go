// Package handlers routes decoded client messages to lobby and game
// operations and pushes the resulting snapshots back out.
package handlers

import (
	"log"

	"github.com/featherfall/exploding-chickens/internal/apperrors"
	"github.com/featherfall/exploding-chickens/internal/protocol"
	"github.com/featherfall/exploding-chickens/internal/server/types"
)

// Handler 消息处理器
type Handler struct {
	server types.ServerContext
}

// NewHandler 创建处理器
func NewHandler(s types.ServerContext) *Handler {
	return &Handler{server: s}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	switch msg.Type {
	// 连接操作
	case protocol.MsgPing:
		h.handlePing(client, msg)

	// 大厅操作
	case protocol.MsgCheckSlug:
		h.handleCheckSlug(client, msg)
	case protocol.MsgCreatePlayer:
		h.handleCreatePlayer(client, msg)
	case protocol.MsgStartGames:
		h.handleStartGames(client)
	case protocol.MsgResetGames:
		h.handleResetGames(client)
	case protocol.MsgKickPlayer:
		h.handleKickPlayer(client, msg)
	case protocol.MsgMakeHost:
		h.handleMakeHost(client, msg)
	case protocol.MsgUpdateSettings:
		h.handleUpdateSettings(client, msg)
	case protocol.MsgImportPack:
		h.handleImportPack(client, msg)
	case protocol.MsgExportPack:
		h.handleExportPack(client, msg)

	// 对局操作
	case protocol.MsgPlayCard:
		h.handlePlayCard(client, msg)
	case protocol.MsgDrawCard:
		h.handleDrawCard(client, msg)

	default:
		log.Printf("⚠️  未知消息类型: '%s' (客户端: %s)", msg.Type, client.GetID())
		client.SendMessage(protocol.NewErrorMessage(msg.Type, apperrors.ErrUnknownAction))
	}
}

// fail answers a refused intent with its <intent>-error twin.
func fail(client types.ClientInterface, intent protocol.MessageType, err *apperrors.GameError) {
	client.SendMessage(protocol.NewErrorMessage(intent, err))
}

// parse decodes the payload or answers with a validation error.
func parse[T any](client types.ClientInterface, msg *protocol.Message) (*T, bool) {
	payload, err := protocol.ParsePayload[T](msg)
	if err != nil {
		fail(client, msg.Type, apperrors.Validation("malformed payload"))
		return nil, false
	}
	return payload, true
}
