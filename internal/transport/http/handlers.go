package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"sketchguess/internal/app"
)

// qrSize is the edge length of invite QR images in pixels
const qrSize = 320

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RoomExistsResponse is the response for checking if room exists
type RoomExistsResponse struct {
	RoomCode    string `json:"roomCode"`
	Exists      bool   `json:"exists"`
	PlayerCount int    `json:"playerCount,omitempty"`
}

// GetRoomResponse is the response for getting room info. The secret word is
// never included.
type GetRoomResponse struct {
	RoomCode       string           `json:"roomCode"`
	AgeSeconds     int64            `json:"ageSeconds"`
	Round          int              `json:"round"`
	RoundStartedAt time.Time        `json:"roundStartedAt"`
	Players        []PlayerResponse `json:"players"`
	Strokes        int              `json:"strokes"`
	Points         int              `json:"points"`
}

// PlayerResponse is one member of a room
type PlayerResponse struct {
	Nickname string    `json:"nickname"`
	JoinedAt time.Time `json:"joinedAt"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveRooms int `json:"activeRooms"`
	Players     int `json:"players"`
	Connections int `json:"connections"`
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &StatsResponse{
		ActiveRooms: s.dir.GetSessionCount(),
		Players:     s.dir.GetTotalPlayerCount(),
		Connections: s.router.ConnectionCount(),
	})
}

// handleGetRoom handles GET /api/rooms/{roomCode}
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomCode := app.NormalizeCode(chi.URLParam(r, "roomCode"))

	session, ok := s.dir.Get(roomCode)
	if !ok {
		s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		return
	}
	info, ok := session.Info()
	if !ok {
		s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		return
	}

	players := make([]PlayerResponse, 0, len(info.Players))
	for _, p := range info.Players {
		players = append(players, PlayerResponse{Nickname: p.Nickname, JoinedAt: p.JoinedAt})
	}

	s.sendSuccess(w, &GetRoomResponse{
		RoomCode:       info.RoomCode,
		AgeSeconds:     int64(time.Since(info.CreatedAt) / time.Second),
		Round:          info.Round,
		RoundStartedAt: info.RoundStartedAt,
		Players:        players,
		Strokes:        info.Strokes,
		Points:         info.Points,
	})
}

// handleRoomExists handles GET /api/rooms/{roomCode}/exists
func (s *Server) handleRoomExists(w http.ResponseWriter, r *http.Request) {
	roomCode := app.NormalizeCode(chi.URLParam(r, "roomCode"))

	resp := &RoomExistsResponse{RoomCode: roomCode}
	if session, ok := s.dir.Get(roomCode); ok && !session.IsClosed() {
		resp.Exists = true
		resp.PlayerCount = session.GetPlayerCount()
	}

	s.sendSuccess(w, resp)
}

// handleRoomQR handles GET /api/rooms/{roomCode}/qr with a PNG of the invite link
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	roomCode := app.NormalizeCode(chi.URLParam(r, "roomCode"))

	if session, ok := s.dir.Get(roomCode); !ok || session.IsClosed() {
		s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		return
	}

	png, err := qrcode.Encode(s.inviteLink(roomCode), qrcode.Medium, qrSize)
	if err != nil {
		s.logger.Error("qr generation failed", "roomCode", roomCode, "error", err)
		s.sendError(w, http.StatusInternalServerError, "QR_FAILED", "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// inviteLink is the client URL that opens the join screen for roomCode
func (s *Server) inviteLink(roomCode string) string {
	return s.config.Server.PublicURL + "/?room=" + url.QueryEscape(roomCode)
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
