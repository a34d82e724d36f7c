// Package protocol defines the JSON wire format between the server and its
// websocket clients: a typed envelope plus per-intent payloads and the view
// projections pushed on every state change.
package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing MessageType = "ping" // 心跳 ping

	// 大厅操作
	MsgCreatePlayer   MessageType = "create-player"    // 注册玩家
	MsgCheckSlug      MessageType = "check-lobby-slug" // 检查大厅口令
	MsgStartGames     MessageType = "start-games"      // 开始分组发牌
	MsgResetGames     MessageType = "reset-games"      // 重置所有牌桌
	MsgKickPlayer     MessageType = "kick-player"      // 踢出玩家
	MsgMakeHost       MessageType = "make-host"        // 转让房主
	MsgUpdateSettings MessageType = "update-settings"  // 修改大厅设置
	MsgImportPack     MessageType = "import-pack"      // 导入扩展包
	MsgExportPack     MessageType = "export-pack"      // 移除扩展包

	// 对局操作
	MsgPlayCard MessageType = "play-card" // 出牌
	MsgDrawCard MessageType = "draw-card" // 摸牌
)

// 服务端 → 客户端 消息类型
const (
	MsgPong        MessageType = "pong"         // 心跳 pong
	MsgConnected   MessageType = "connected"    // 连接成功
	MsgSlugStatus  MessageType = "slug-status"  // 口令检查结果
	MsgLobbyUpdate MessageType = "lobby-update" // 大厅全量快照
	MsgGameUpdate  MessageType = "game-update"  // 牌桌全量快照
	MsgPlayResult  MessageType = "play-result"  // 出牌/摸牌私有结果
)

// ErrorSuffix is appended to the failed intent's type, so a bad play-card
// answers with play-card-error and the client can match request to refusal.
const ErrorSuffix = "-error"

// ErrorType returns the error message type for an intent.
func ErrorType(intent MessageType) MessageType {
	return intent + ErrorSuffix
}

// IsError reports whether a message type carries an ErrorPayload.
func (t MessageType) IsError() bool {
	n := len(t) - len(ErrorSuffix)
	return n > 0 && t[n:] == ErrorSuffix
}
