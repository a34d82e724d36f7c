package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/featherfall/exploding-chickens/internal/apperrors"
	"github.com/featherfall/exploding-chickens/internal/protocol"
)

// createLobbyResponse answers POST /api/lobby.
type createLobbyResponse struct {
	Slug      string `json:"slug"`
	URL       string `json:"url"`
	HostToken string `json:"host_token"`
}

// registerHTTPRoutes mounts the REST surface next to the websocket.
func (s *Server) registerHTTPRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/lobby", s.handleCreateLobby)
	mux.HandleFunc("GET /api/lobby/{slug}", s.handleGetLobby)
	mux.HandleFunc("DELETE /api/lobby/{slug}", s.handleDeleteLobby)
	mux.HandleFunc("GET /api/lobby/{slug}/qr", s.handleLobbyQR)
	mux.HandleFunc("GET /api/game/{slug}", s.handleGetGame)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeGameError(w http.ResponseWriter, status int, err *apperrors.GameError) {
	writeJSON(w, status, protocol.ErrorPayload{Code: err.Code, Message: err.Message})
}

// handleCreateLobby 创建大厅，返回邀请链接和房主令牌
func (s *Server) handleCreateLobby(w http.ResponseWriter, r *http.Request) {
	slug := r.FormValue("slug")

	l, gerr := s.manager.CreateLobby(r.Context(), slug)
	if gerr != nil {
		writeGameError(w, http.StatusBadRequest, gerr)
		return
	}

	token, err := s.signHostToken(l.Slug)
	if err != nil {
		log.Printf("host token 签发失败: %v", err)
		writeGameError(w, http.StatusInternalServerError, apperrors.Internal("token signing failed"))
		return
	}

	writeJSON(w, http.StatusCreated, createLobbyResponse{
		Slug:      l.Slug,
		URL:       s.lobbyURL(l.Slug),
		HostToken: token,
	})
}

// handleGetLobby 大厅快照
func (s *Server) handleGetLobby(w http.ResponseWriter, r *http.Request) {
	l, gerr := s.manager.GetLobby(r.PathValue("slug"))
	if gerr != nil {
		writeGameError(w, http.StatusNotFound, gerr)
		return
	}
	writeJSON(w, http.StatusOK, protocol.ProjectLobby(l))
}

// handleGetGame 牌桌快照（旁观视角，不含手牌）
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	_, g, gerr := s.manager.FindGame(r.PathValue("slug"))
	if gerr != nil {
		writeGameError(w, http.StatusNotFound, gerr)
		return
	}
	writeJSON(w, http.StatusOK, protocol.ProjectGame(g, ""))
}

// handleDeleteLobby 解散大厅，需要房主令牌
func (s *Server) handleDeleteLobby(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !s.verifyHostToken(token, slug) {
		writeGameError(w, http.StatusForbidden, apperrors.ErrNotHost)
		return
	}

	if gerr := s.manager.DeleteLobby(r.Context(), slug); gerr != nil {
		writeGameError(w, http.StatusNotFound, gerr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLobbyQR 邀请二维码
func (s *Server) handleLobbyQR(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if _, gerr := s.manager.GetLobby(slug); gerr != nil {
		writeGameError(w, http.StatusNotFound, gerr)
		return
	}

	png, err := qrcode.Encode(s.lobbyURL(slug), qrcode.Medium, 256)
	if err != nil {
		writeGameError(w, http.StatusInternalServerError, apperrors.Internal("qr encoding failed"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, _ = w.Write(png)
}

// handleLeaderboard 胜场排行
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := s.stats.TopWinners(r.Context(), limit)
	if err != nil {
		writeGameError(w, http.StatusInternalServerError, apperrors.Internal("leaderboard unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) lobbyURL(slug string) string {
	return strings.TrimRight(s.config.Server.BaseURL, "/") + "/lobby/" + slug
}
