package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// CreatePlayerPayload registers a nickname and avatar in the lobby roster.
type CreatePlayerPayload struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

// CheckSlugPayload asks whether a lobby slug is valid and free.
type CheckSlugPayload struct {
	Slug string `json:"slug"`
}

// KickPlayerPayload removes a player from the roster. Host only.
type KickPlayerPayload struct {
	TargetID string `json:"target_id"`
}

// MakeHostPayload transfers the host role. Host only.
type MakeHostPayload struct {
	TargetID string `json:"target_id"`
}

// UpdateSettingsPayload replaces the lobby settings. Host only.
type UpdateSettingsPayload struct {
	Grouping           string `json:"grouping"`
	RoomSize           int    `json:"room_size"`
	PlayTimeoutSeconds int    `json:"play_timeout_seconds"`
	IncludeHost        bool   `json:"include_host"`
}

// PackPayload names an expansion pack to import or export. Host only.
type PackPayload struct {
	Pack string `json:"pack"`
}

// PlayCardPayload plays one card from the sender's hand. Favor-class cards
// carry a target player; a defuse carries the burial offset from the top of
// the draw pile. Both may be absent on the first attempt; the engine answers
// with what it still needs.
type PlayCardPayload struct {
	CardID         string `json:"card_id"`
	TargetPlayerID string `json:"target_player_id,omitempty"`
	Position       *int   `json:"position,omitempty"`
}

// DrawCardPayload draws from the pile. Source is "top" unless a draw-bottom
// effect says otherwise.
type DrawCardPayload struct {
	Source string `json:"source,omitempty"`
}

// --- 服务端响应 Payloads ---

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// ConnectedPayload confirms the socket is registered to a lobby.
type ConnectedPayload struct {
	LobbySlug string `json:"lobby_slug"`
	PlayerID  string `json:"player_id,omitempty"`
}

// SlugStatusPayload answers a check-lobby-slug request.
type SlugStatusPayload struct {
	Slug  string `json:"slug"`
	Valid bool   `json:"valid"`
	Free  bool   `json:"free"`
}

// LobbyUpdatePayload is the full lobby snapshot pushed after any change.
// Trigger names the action that caused the push.
type LobbyUpdatePayload struct {
	Trigger string    `json:"trigger"`
	Lobby   LobbyView `json:"lobby"`
}

// GameUpdatePayload is the full table snapshot pushed after any change.
type GameUpdatePayload struct {
	Trigger string   `json:"trigger"`
	Game    GameView `json:"game"`
}

// PlayResultPayload answers the acting client's play-card or draw-card with
/// the private part of the outcome: the card drawn or stolen, the glimpsed
// future, or the field an incomplete play still needs.
type PlayResultPayload struct {
	Outcome   string     `json:"outcome"` // complete | incomplete
	Need      string     `json:"need,omitempty"`
	Played    string     `json:"played,omitempty"`
	Drawn     *CardView  `json:"drawn,omitempty"`
	Stolen    *CardView  `json:"stolen,omitempty"`
	Future    []CardView `json:"future,omitempty"`
	Exploding bool       `json:"exploding,omitempty"`
	WinnerID  string     `json:"winner_id,omitempty"`
}

// ErrorPayload 错误消息
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Need    string `json:"need,omitempty"` // set on incomplete plays
}
