package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/featherfall/exploding-chickens/internal/config"
	"github.com/featherfall/exploding-chickens/internal/game"
	"github.com/featherfall/exploding-chickens/internal/lobby"
	"github.com/featherfall/exploding-chickens/internal/protocol"
	"github.com/featherfall/exploding-chickens/internal/server/handlers"
	"github.com/featherfall/exploding-chickens/internal/stats"
	"github.com/featherfall/exploding-chickens/internal/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源，生产环境需要限制
	},
	EnableCompression: false,
}

// Server 是 HTTP/WebSocket 网关：每个连接属于一个大厅，状态变更后向该
// 大厅的所有连接推送全量快照
type Server struct {
	config  *config.Config
	redis   *redis.Client
	store   *storage.RedisStore
	stats   *stats.RedisReporter
	manager *lobby.Manager
	handler *handlers.Handler

	clientsMu sync.RWMutex
	clients   map[string]*Client
	byLobby   map[string]map[string]*Client

	httpServer  *http.Server
	sweepCancel context.CancelFunc
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}

	s := &Server{
		config:  cfg,
		redis:   rdb,
		store:   storage.NewRedisStore(rdb, cfg.Game.LobbyMaxAgeDuration()),
		stats:   stats.NewRedisReporter(rdb),
		clients: make(map[string]*Client),
		byLobby: make(map[string]map[string]*Client),
	}
	s.manager = lobby.NewManager(s.store, s.stats, cfg.Game.LobbyMaxAgeDuration())
	s.handler = handlers.NewHandler(s)

	if err := s.manager.Restore(context.Background()); err != nil {
		return nil, fmt.Errorf("大厅恢复失败: %w", err)
	}

	return s, nil
}

// Start 启动服务器
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	s.registerHTTPRoutes(mux)

	sweepCtx, cancel := context.WithCancel(context.Background())
	s.sweepCancel = cancel
	go s.manager.SweepLoop(sweepCtx, s.config.Game.SweepIntervalDuration())
	go s.monitorStats()

	log.Printf("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// handleWebSocket 处理 WebSocket 连接，?lobby= 必填，?player= 可选
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("lobby")
	l, gerr := s.manager.GetLobby(slug)
	if gerr != nil {
		http.Error(w, gerr.Message, http.StatusNotFound)
		return
	}

	playerID := r.URL.Query().Get("player")
	if playerID != "" && l.PlayerByID(playerID) == nil {
		http.Error(w, "unknown player", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	client := NewClient(s, conn, slug, playerID)
	s.registerClient(client)

	client.SendMessage(protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		LobbySlug: slug,
		PlayerID:  playerID,
	}))

	go client.ReadPump()
	go client.WritePump()

	// 新连接立即获得当前快照
	s.PushLobby(l, "connect")
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// registerClient 注册客户端并更新在线计数
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	s.clients[client.ID] = client
	room := s.byLobby[client.LobbySlug]
	if room == nil {
		room = make(map[string]*Client)
		s.byLobby[client.LobbySlug] = room
	}
	room[client.ID] = client
	s.clientsMu.Unlock()

	s.adjustPresence(client, +1)
	log.Printf("✅ 客户端 %s 加入大厅 %s", client.ID, client.LobbySlug)
}

// unregisterClient 注销客户端
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	_, known := s.clients[client.ID]
	delete(s.clients, client.ID)
	if room := s.byLobby[client.LobbySlug]; room != nil {
		delete(room, client.ID)
		if len(room) == 0 {
			delete(s.byLobby, client.LobbySlug)
		}
	}
	s.clientsMu.Unlock()

	if !known {
		return
	}
	s.adjustPresence(client, -1)
	log.Printf("❌ 客户端 %s 离开大厅 %s", client.ID, client.LobbySlug)

	if l, err := s.manager.GetLobby(client.LobbySlug); err == nil {
		s.PushLobby(l, "disconnect")
	}
}

// adjustPresence 维护玩家的连接数
func (s *Server) adjustPresence(client *Client, delta int) {
	playerID := client.GetPlayerID()
	if playerID == "" {
		return
	}
	l, err := s.manager.GetLobby(client.LobbySlug)
	if err != nil {
		return
	}
	if p := l.PlayerByID(playerID); p != nil {
		l.Locked(func() {
			p.Connections += delta
			if p.Connections < 0 {
				p.Connections = 0
			}
		})
	}
}

// OnlineCount 大厅在线连接数
func (s *Server) OnlineCount(slug string) int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.byLobby[slug])
}

// lobbyClients snapshots the sockets of one lobby.
func (s *Server) lobbyClients(slug string) []*Client {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	room := s.byLobby[slug]
	out := make([]*Client, 0, len(room))
	for _, c := range room {
		out = append(out, c)
	}
	return out
}

// PushLobby 向大厅所有连接推送大厅快照
func (s *Server) PushLobby(l *lobby.Lobby, trigger string) {
	view := protocol.ProjectLobby(l)
	msg := protocol.MustNewMessage(protocol.MsgLobbyUpdate, protocol.LobbyUpdatePayload{
		Trigger: trigger,
		Lobby:   view,
	})
	for _, c := range s.lobbyClients(l.Slug) {
		c.SendMessage(msg)
	}
}

// PushGame 向大厅所有连接推送牌桌快照，入座玩家附带自己的手牌
func (s *Server) PushGame(l *lobby.Lobby, g *game.Game, trigger string) {
	spectator := protocol.MustNewMessage(protocol.MsgGameUpdate, protocol.GameUpdatePayload{
		Trigger: trigger,
		Game:    protocol.ProjectGame(g, ""),
	})

	for _, c := range s.lobbyClients(l.Slug) {
		playerID := c.GetPlayerID()
		if playerID != "" && g.PlayerByID(playerID) != nil {
			c.SendMessage(protocol.MustNewMessage(protocol.MsgGameUpdate, protocol.GameUpdatePayload{
				Trigger: trigger,
				Game:    protocol.ProjectGame(g, playerID),
			}))
			continue
		}
		c.SendMessage(spectator)
	}
}

// Manager 返回大厅管理器
func (s *Server) Manager() *lobby.Manager { return s.manager }

// Persist 将大厅写入存储
func (s *Server) Persist(ctx context.Context, l *lobby.Lobby) error {
	return s.manager.Persist(ctx, l)
}

// DrawDebounce 返回摸牌去抖窗口
func (s *Server) DrawDebounce() time.Duration {
	return s.config.Game.DrawDebounceDuration()
}

// monitorStats 定期监控服务器状态
func (s *Server) monitorStats() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		s.clientsMu.RLock()
		online := len(s.clients)
		s.clientsMu.RUnlock()

		log.Printf("📊 [监控] 连接: %d | 大厅: %d | Goroutines: %d | 内存: %.2f MB",
			online,
			s.manager.Count(),
			runtime.NumGoroutine(),
			float64(m.Alloc)/1024/1024)
	}
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown(ctx context.Context) error {
	if s.sweepCancel != nil {
		s.sweepCancel()
	}

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.Unlock()

	s.stats.Close()
	_ = s.redis.Close()

	log.Println("服务器已关闭")
	return err
}
