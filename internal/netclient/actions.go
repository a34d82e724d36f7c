package netclient

import (
	"time"

	"github.com/featherfall/exploding-chickens/internal/protocol"
)

// --- 便捷方法 ---

// CreatePlayer 以昵称和头像入座
func (c *Client) CreatePlayer(nickname, avatar string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgCreatePlayer, protocol.CreatePlayerPayload{
		Nickname: nickname,
		Avatar:   avatar,
	}))
}

// CheckSlug 查询大厅别名是否可用
func (c *Client) CheckSlug(slug string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgCheckSlug, protocol.CheckSlugPayload{
		Slug: slug,
	}))
}

// StartGames 开始对局（仅房主）
func (c *Client) StartGames() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgStartGames, nil))
}

// ResetGames 重置所有牌桌（仅房主）
func (c *Client) ResetGames() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgResetGames, nil))
}

// KickPlayer 踢出玩家（仅房主）
func (c *Client) KickPlayer(targetID string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgKickPlayer, protocol.KickPlayerPayload{
		TargetID: targetID,
	}))
}

// MakeHost 移交房主
func (c *Client) MakeHost(targetID string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgMakeHost, protocol.MakeHostPayload{
		TargetID: targetID,
	}))
}

// UpdateSettings 修改大厅设置（仅房主）
func (c *Client) UpdateSettings(p protocol.UpdateSettingsPayload) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgUpdateSettings, p))
}

// ImportPack 导入扩展包（仅房主）
func (c *Client) ImportPack(pack string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgImportPack, protocol.PackPayload{
		Pack: pack,
	}))
}

// ExportPack 移除扩展包（仅房主）
func (c *Client) ExportPack(pack string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgExportPack, protocol.PackPayload{
		Pack: pack,
	}))
}

// PlayCard 打出一张牌
func (c *Client) PlayCard(cardID, targetPlayerID string, position *int) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPlayCard, protocol.PlayCardPayload{
		CardID:         cardID,
		TargetPlayerID: targetPlayerID,
		Position:       position,
	}))
}

// DrawCard 摸牌结束回合
func (c *Client) DrawCard() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgDrawCard, protocol.DrawCardPayload{}))
}

// DrawBottom 从牌堆底部摸牌
func (c *Client) DrawBottom() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgDrawCard, protocol.DrawCardPayload{
		Source: "bottom",
	}))
}

// Ping 发送心跳
func (c *Client) Ping() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
		Timestamp: time.Now().UnixMilli(),
	}))
}

// StartHeartbeat 启动心跳检测
func (c *Client) StartHeartbeat() {
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if c.IsConnected() {
					_ = c.Ping()
				}
			case <-c.done:
				return
			}
		}
	}()
}
