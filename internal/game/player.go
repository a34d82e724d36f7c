package game

import (
	"github.com/featherfall/exploding-chickens/internal/apperrors"
)

// Role 玩家角色
type Role string

const (
	RoleHost   Role = "host"
	RolePlayer Role = "player"
)

// LifeStatus 玩家存活状态
type LifeStatus string

const (
	StatusAlive  LifeStatus = "alive"
	StatusDead   LifeStatus = "dead"
	StatusWinner LifeStatus = "winner"
)

// Player is one seat in a game. Connections counts live sockets and is used
// for presence only; it never affects game rules.
type Player struct {
	ID       string     `json:"id"`
	Nickname string     `json:"nickname"`
	Avatar   string     `json:"avatar"`
	Seat     int        `json:"seat"`
	Role     Role       `json:"role"`
	Status   LifeStatus `json:"status"`

	// Exploding marks a player who drew a chicken and has not yet resolved
	// it. The player stays alive until they concede.
	Exploding bool `json:"exploding"`

	Connections int `json:"connections"`
	Wins        int `json:"wins"`
}

// IsAlive reports whether the player still holds a seat in the running game.
func (p *Player) IsAlive() bool {
	return p.Status != StatusDead
}

// Direction 回合方向
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	return -d
}

// NextSeat finds the next living seat strictly in turn direction, wrapping
// around the seat range and skipping dead players. It never returns the
// current seat while two or more players live; with fewer it fails, since
// the caller should already have ended the game.
func NextSeat(current int, dir Direction, players []*Player) (int, *apperrors.GameError) {
	n := len(players)
	if n == 0 {
		return 0, apperrors.ErrNoEligiblePlayer
	}

	bySeat := make(map[int]*Player, n)
	alive := 0
	for _, p := range players {
		bySeat[p.Seat] = p
		if p.IsAlive() {
			alive++
		}
	}
	if alive <= 1 {
		return 0, apperrors.ErrNoEligiblePlayer
	}

	for step := 1; step <= n; step++ {
		seat := ((current+int(dir)*step)%n + n) % n
		if seat == current {
			continue
		}
		if p, ok := bySeat[seat]; ok && p.IsAlive() {
			return seat, nil
		}
	}
	return 0, apperrors.ErrNoEligiblePlayer
}
