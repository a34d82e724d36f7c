package handlers

import (
	"context"
	"time"

	"github.com/featherfall/exploding-chickens/internal/apperrors"
	"github.com/featherfall/exploding-chickens/internal/game/card"
	"github.com/featherfall/exploding-chickens/internal/lobby"
	"github.com/featherfall/exploding-chickens/internal/protocol"
	"github.com/featherfall/exploding-chickens/internal/server/types"
)

// handlePing 心跳
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.PingPayload](client, msg)
	if !ok {
		return
	}
	client.SendMessage(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleCheckSlug 检查口令是否可用
func (h *Handler) handleCheckSlug(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.CheckSlugPayload](client, msg)
	if !ok {
		return
	}
	valid, free := h.server.Manager().CheckSlug(payload.Slug)
	client.SendMessage(protocol.MustNewMessage(protocol.MsgSlugStatus, protocol.SlugStatusPayload{
		Slug:  payload.Slug,
		Valid: valid,
		Free:  free,
	}))
}

// currentLobby resolves the client's lobby or answers with an error.
func (h *Handler) currentLobby(client types.ClientInterface, intent protocol.MessageType) (*lobby.Lobby, bool) {
	l, err := h.server.Manager().GetLobby(client.GetLobby())
	if err != nil {
		fail(client, intent, err)
		return nil, false
	}
	return l, true
}

// persist writes the lobby through before any success answer goes out. A
// failed save refuses the intent so clients never see acknowledged state
// that would not survive a restart.
func (h *Handler) persist(client types.ClientInterface, intent protocol.MessageType, l *lobby.Lobby) bool {
	if err := h.server.Persist(context.Background(), l); err != nil {
		fail(client, intent, apperrors.Internal("the lobby could not be saved"))
		return false
	}
	return true
}

// requirePlayer resolves the client's claimed player.
func requirePlayer(client types.ClientInterface, intent protocol.MessageType) (string, bool) {
	id := client.GetPlayerID()
	if id == "" {
		fail(client, intent, apperrors.ErrPlayerNotFound)
		return "", false
	}
	return id, true
}

// handleCreatePlayer 在大厅注册玩家并绑定本连接
func (h *Handler) handleCreatePlayer(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.CreatePlayerPayload](client, msg)
	if !ok {
		return
	}
	l, ok := h.currentLobby(client, msg.Type)
	if !ok {
		return
	}

	p, err := l.AddPlayer(payload.Nickname, payload.Avatar)
	if err != nil {
		fail(client, msg.Type, err)
		return
	}

	client.SetPlayerID(p.ID)
	l.Locked(func() { p.Connections++ })

	if !h.persist(client, msg.Type, l) {
		return
	}
	client.SendMessage(protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		LobbySlug: l.Slug,
		PlayerID:  p.ID,
	}))
	h.server.PushLobby(l, "create-player")
}

// handleStartGames 分组发牌
func (h *Handler) handleStartGames(client types.ClientInterface) {
	l, ok := h.currentLobby(client, protocol.MsgStartGames)
	if !ok {
		return
	}
	actorID, ok := requirePlayer(client, protocol.MsgStartGames)
	if !ok {
		return
	}

	if !l.IsHost(actorID) {
		fail(client, protocol.MsgStartGames, apperrors.ErrNotHost)
		return
	}

	if err := l.StartGames(); err != nil {
		fail(client, protocol.MsgStartGames, err)
		return
	}

	if !h.persist(client, protocol.MsgStartGames, l) {
		return
	}
	h.server.PushLobby(l, "start-games")
	for _, g := range l.Games {
		h.server.PushGame(l, g, "start-games")
	}
}

// handleResetGames 重置所有牌桌
func (h *Handler) handleResetGames(client types.ClientInterface) {
	l, ok := h.currentLobby(client, protocol.MsgResetGames)
	if !ok {
		return
	}
	actorID, ok := requirePlayer(client, protocol.MsgResetGames)
	if !ok {
		return
	}
	if !l.IsHost(actorID) {
		fail(client, protocol.MsgResetGames, apperrors.ErrNotHost)
		return
	}

	l.ResetGames()
	if !h.persist(client, protocol.MsgResetGames, l) {
		return
	}
	h.server.PushLobby(l, "reset-games")
	for _, g := range l.Games {
		h.server.PushGame(l, g, "reset-games")
	}
}

// handleKickPlayer 房主踢人
func (h *Handler) handleKickPlayer(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.KickPlayerPayload](client, msg)
	if !ok {
		return
	}
	l, ok := h.currentLobby(client, msg.Type)
	if !ok {
		return
	}
	actorID, ok := requirePlayer(client, msg.Type)
	if !ok {
		return
	}

	// The target's table, if any, before the roster changes under it.
	g := l.GameOf(payload.TargetID)
	if err := l.KickPlayer(actorID, payload.TargetID); err != nil {
		fail(client, msg.Type, err)
		return
	}

	if !h.persist(client, msg.Type, l) {
		return
	}
	h.server.PushLobby(l, "kick-player")
	if g != nil {
		h.server.PushGame(l, g, "kick-player")
	}
}

// handleMakeHost 转让房主
func (h *Handler) handleMakeHost(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.MakeHostPayload](client, msg)
	if !ok {
		return
	}
	l, ok := h.currentLobby(client, msg.Type)
	if !ok {
		return
	}
	actorID, ok := requirePlayer(client, msg.Type)
	if !ok {
		return
	}

	if err := l.MakeHost(actorID, payload.TargetID); err != nil {
		fail(client, msg.Type, err)
		return
	}

	if !h.persist(client, msg.Type, l) {
		return
	}
	h.server.PushLobby(l, "make-host")
}

// handleUpdateSettings 修改大厅设置
func (h *Handler) handleUpdateSettings(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.UpdateSettingsPayload](client, msg)
	if !ok {
		return
	}
	l, ok := h.currentLobby(client, msg.Type)
	if !ok {
		return
	}
	actorID, ok := requirePlayer(client, msg.Type)
	if !ok {
		return
	}

	err := l.UpdateSettings(actorID, lobby.Settings{
		Grouping:    lobby.GroupingMethod(payload.Grouping),
		RoomSize:    payload.RoomSize,
		PlayTimeout: time.Duration(payload.PlayTimeoutSeconds) * time.Second,
		IncludeHost: payload.IncludeHost,
	})
	if err != nil {
		fail(client, msg.Type, err)
		return
	}

	if !h.persist(client, msg.Type, l) {
		return
	}
	h.server.PushLobby(l, "update-settings")
}

// handleImportPack 导入扩展包
func (h *Handler) handleImportPack(client types.ClientInterface, msg *protocol.Message) {
	h.handlePackChange(client, msg, true)
}

// handleExportPack 移除扩展包
func (h *Handler) handleExportPack(client types.ClientInterface, msg *protocol.Message) {
	h.handlePackChange(client, msg, false)
}

func (h *Handler) handlePackChange(client types.ClientInterface, msg *protocol.Message, importing bool) {
	payload, ok := parse[protocol.PackPayload](client, msg)
	if !ok {
		return
	}
	l, ok := h.currentLobby(client, msg.Type)
	if !ok {
		return
	}
	actorID, ok := requirePlayer(client, msg.Type)
	if !ok {
		return
	}

	var err *apperrors.GameError
	if importing {
		err = l.ImportPack(actorID, card.Pack(payload.Pack))
	} else {
		err = l.ExportPack(actorID, card.Pack(payload.Pack))
	}
	if err != nil {
		fail(client, msg.Type, err)
		return
	}

	if !h.persist(client, msg.Type, l) {
		return
	}
	h.server.PushLobby(l, string(msg.Type))
}
