package lobby

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featherfall/exploding-chickens/internal/apperrors"
	"github.com/featherfall/exploding-chickens/internal/game"
	"github.com/featherfall/exploding-chickens/internal/game/card"
)

func testLobby(t *testing.T, players int) *Lobby {
	t.Helper()
	l := NewLobby("plucky-walrus", rand.New(rand.NewSource(42)), game.NoopReporter{})
	for i := 0; i < players; i++ {
		_, err := l.AddPlayer(fmt.Sprintf("Player %d", i), "fox.png")
		require.Nil(t, err)
	}
	return l
}

func TestAddPlayer_FirstIsHost(t *testing.T) {
	l := testLobby(t, 3)
	assert.Equal(t, game.RoleHost, l.Players[0].Role)
	assert.Equal(t, game.RolePlayer, l.Players[1].Role)
	assert.Equal(t, l.Players[0].ID, l.host().ID)
}

func TestAddPlayer_Validation(t *testing.T) {
	l := testLobby(t, 1)

	cases := []struct {
		nickname string
		avatar   string
		code     string
	}{
		{"", "fox.png", apperrors.CodePlayerName},
		{"  padded  ", "fox.png", apperrors.CodePlayerName},
		{"way way way too long a name", "fox.png", apperrors.CodePlayerName},
		{"semi;colon", "fox.png", apperrors.CodePlayerName},
		{"Player 0", "fox.png", apperrors.CodePlayerName}, // duplicate
		{"Fresh Player", "", apperrors.CodePlayerAvatar},
		{"Fresh Player", "default.png", apperrors.CodePlayerAvatar},
		{"Fresh Player", "shark.png", apperrors.CodePlayerAvatar},
	}
	for _, tc := range cases {
		_, err := l.AddPlayer(tc.nickname, tc.avatar)
		require.NotNil(t, err, "nickname=%q avatar=%q", tc.nickname, tc.avatar)
		assert.Equal(t, tc.code, err.Code)
	}
	assert.Len(t, l.Players, 1)
}

func TestKickPlayer(t *testing.T) {
	l := testLobby(t, 3)
	host, target := l.Players[0], l.Players[1]

	require.Nil(t, l.KickPlayer(host.ID, target.ID))
	assert.Len(t, l.Players, 2)
	assert.Nil(t, l.PlayerByID(target.ID))

	assert.NotNil(t, l.KickPlayer(host.ID, host.ID), "host cannot kick themselves")
	assert.NotNil(t, l.KickPlayer(l.Players[1].ID, host.ID), "non-host cannot kick")
}

func TestKickPlayer_MidHandKeepsTableLive(t *testing.T) {
	l := testLobby(t, 3)
	host := l.host()
	require.Nil(t, l.UpdateSettings(host.ID, Settings{
		Grouping:    GroupingRandom,
		RoomSize:    3,
		IncludeHost: true,
	}))
	require.Nil(t, l.StartGames())
	g := l.Games[0]

	// Pin the turn on a non-host player, then kick them mid-hand.
	var victim *game.Player
	g.Locked(func() {
		for _, p := range g.Players {
			if p.ID != host.ID {
				victim = p
			}
		}
		g.Seat = victim.Seat
	})
	require.Nil(t, l.KickPlayer(host.ID, victim.ID))

	assert.Nil(t, l.PlayerByID(victim.ID))
	assert.Nil(t, g.PlayerByID(victim.ID), "the kicked player leaves the table too")
	assert.Equal(t, 1, g.ChickensInPlay(), "one chicken retires with the kicked hand")

	// The remaining players can still act; the turn is not stranded.
	var cur *game.Player
	g.Locked(func() {
		for _, p := range g.Players {
			if p.Seat == g.Seat {
				cur = p
			}
		}
	})
	require.NotNil(t, cur)
	out := g.DrawCard(cur.ID, game.DrawTop)
	assert.NotEqual(t, game.OutcomeError, out.Kind, "turn stranded after kick: %v", out.Err)
}

func TestMakeHost(t *testing.T) {
	l := testLobby(t, 2)
	host, other := l.Players[0], l.Players[1]

	assert.NotNil(t, l.MakeHost(other.ID, other.ID))
	require.Nil(t, l.MakeHost(host.ID, other.ID))
	assert.Equal(t, game.RolePlayer, host.Role)
	assert.Equal(t, game.RoleHost, other.Role)
}

func TestStartGames_RandomGrouping(t *testing.T) {
	l := testLobby(t, 7)
	require.Nil(t, l.UpdateSettings(l.host().ID, Settings{
		Grouping:    GroupingRandom,
		RoomSize:    4,
		IncludeHost: true,
	}))

	require.Nil(t, l.StartGames())
	require.Len(t, l.Games, 2)

	seen := make(map[string]bool)
	for _, g := range l.Games {
		assert.Equal(t, game.StatusInGame, g.Status)
		assert.GreaterOrEqual(t, len(g.Players), 2)
		assert.LessOrEqual(t, len(g.Players), 4)
		for _, p := range g.Players {
			assert.False(t, seen[p.ID], "player seated twice")
			seen[p.ID] = true
		}
	}
	assert.Len(t, seen, 7)
}

func TestStartGames_WinsGroupingSeatsRecordHoldersTogether(t *testing.T) {
	l := testLobby(t, 4)
	l.Players[0].Wins = 9
	l.Players[2].Wins = 8
	require.Nil(t, l.UpdateSettings(l.host().ID, Settings{
		Grouping:    GroupingWins,
		RoomSize:    2,
		IncludeHost: true,
	}))

	require.Nil(t, l.StartGames())
	require.Len(t, l.Games, 2)

	top := l.Games[0]
	require.Len(t, top.Players, 2)
	wins := top.Players[0].Wins + top.Players[1].Wins
	assert.Equal(t, 17, wins, "the two record holders share the first table")
}

func TestStartGames_ExcludesHostWhenConfigured(t *testing.T) {
	l := testLobby(t, 5)
	host := l.host()
	require.Nil(t, l.UpdateSettings(host.ID, Settings{
		Grouping:    GroupingRandom,
		RoomSize:    5,
		IncludeHost: false,
	}))

	require.Nil(t, l.StartGames())
	require.Len(t, l.Games, 1)
	assert.Len(t, l.Games[0].Players, 4)
	assert.Nil(t, l.Games[0].PlayerByID(host.ID))
	assert.NotNil(t, l.PlayerByID(host.ID), "host stays on the roster")
}

func TestStartGames_NeverSeatsOnePlayerAlone(t *testing.T) {
	l := testLobby(t, 3)
	require.Nil(t, l.UpdateSettings(l.host().ID, Settings{
		Grouping:    GroupingRandom,
		RoomSize:    2,
		IncludeHost: true,
	}))

	require.Nil(t, l.StartGames())
	require.Len(t, l.Games, 1, "three players make one overfull pair table")
	assert.Len(t, l.Games[0].Players, 3)
}

func TestStartGames_RefusedMidHand(t *testing.T) {
	l := testLobby(t, 2)
	require.Nil(t, l.StartGames())
	err := l.StartGames()
	require.NotNil(t, err)
	assert.Equal(t, apperrors.ErrGameInProgress, err)
}

func TestResetGames(t *testing.T) {
	l := testLobby(t, 4)
	require.Nil(t, l.StartGames())
	l.ResetGames()
	for _, g := range l.Games {
		assert.Equal(t, game.StatusInLobby, g.Status)
	}
	require.Nil(t, l.StartGames(), "tables can be redealt after a reset")
}

func TestImportExportPack_FlowsIntoDeals(t *testing.T) {
	l := testLobby(t, 2)
	host := l.host()

	require.Nil(t, l.ImportPack(host.ID, card.PackYolkingAround))
	assert.NotNil(t, l.ImportPack(host.ID, card.PackYolkingAround))
	assert.NotNil(t, l.ImportPack(l.Players[1].ID, card.PackYolkingAround), "only the host manages packs")

	require.Nil(t, l.StartGames())
	g := l.Games[0]
	expansion := 0
	g.Locked(func() {
		for _, c := range g.Cards {
			if c.Pack == card.PackYolkingAround {
				expansion++
			}
		}
	})
	assert.Positive(t, expansion)

	l.ResetGames()
	require.Nil(t, l.ExportPack(host.ID, card.PackYolkingAround))
	assert.NotNil(t, l.ExportPack(host.ID, card.PackYolkingAround))
}

func TestImportPack_RefusedMidHandTouchesNoTable(t *testing.T) {
	l := testLobby(t, 4)
	host := l.host()
	require.Nil(t, l.UpdateSettings(host.ID, Settings{
		Grouping:    GroupingRandom,
		RoomSize:    2,
		IncludeHost: true,
	}))
	require.Nil(t, l.StartGames())
	require.Len(t, l.Games, 2)

	// One table finished, the other still mid-hand.
	l.Games[0].Reset()

	err := l.ImportPack(host.ID, card.PackYolkingAround)
	require.NotNil(t, err)
	assert.Equal(t, apperrors.ErrGameInProgress, err)
	assert.Empty(t, l.ImportedPacks)
	for _, g := range l.Games {
		assert.Empty(t, g.ImportedPacks, "a refused import reaches no table")
	}
}

func TestExportPack_RefusedMidHandKeepsPackList(t *testing.T) {
	l := testLobby(t, 4)
	host := l.host()
	require.Nil(t, l.ImportPack(host.ID, card.PackYolkingAround))
	require.Nil(t, l.UpdateSettings(host.ID, Settings{
		Grouping:    GroupingRandom,
		RoomSize:    2,
		IncludeHost: true,
	}))
	require.Nil(t, l.StartGames())
	require.Len(t, l.Games, 2)

	l.Games[0].Reset()

	err := l.ExportPack(host.ID, card.PackYolkingAround)
	require.NotNil(t, err)
	assert.Equal(t, apperrors.ErrGameInProgress, err)
	assert.Equal(t, []card.Pack{card.PackYolkingAround}, l.ImportedPacks)
	for _, g := range l.Games {
		assert.Equal(t, []card.Pack{card.PackYolkingAround}, g.ImportedPacks)
	}
}

func TestGameOf(t *testing.T) {
	l := testLobby(t, 4)
	require.Nil(t, l.StartGames())
	for _, p := range l.Players {
		g := l.GameOf(p.ID)
		require.NotNil(t, g)
		assert.Equal(t, g, l.GameBySlug(g.Slug))
	}
	assert.Nil(t, l.GameOf("nobody"))
}

func TestPartitionSizes(t *testing.T) {
	mk := func(n int) []*game.Player {
		ps := make([]*game.Player, n)
		for i := range ps {
			ps[i] = &game.Player{ID: fmt.Sprintf("p%d", i)}
		}
		return ps
	}

	cases := []struct {
		players, size int
		want          []int
	}{
		{2, 5, []int{2}},
		{5, 5, []int{5}},
		{6, 5, []int{3, 3}},
		{7, 4, []int{4, 3}},
		{3, 2, []int{3}},
		{9, 3, []int{3, 3, 3}},
	}
	for _, tc := range cases {
		groups := partition(mk(tc.players), tc.size)
		require.Len(t, groups, len(tc.want), "players=%d size=%d", tc.players, tc.size)
		for i, g := range groups {
			assert.Len(t, g, tc.want[i], "players=%d size=%d group=%d", tc.players, tc.size, i)
		}
	}
}

func TestValidateNicknameAndSlug(t *testing.T) {
	assert.Nil(t, ValidateNickname("Egg Hunter 9"))
	assert.NotNil(t, ValidateNickname(""))
	assert.NotNil(t, ValidateNickname(" leading"))
	assert.NotNil(t, ValidateNickname("tabs\tinside"))

	assert.True(t, ValidSlug("plucky-walrus"))
	assert.True(t, ValidSlug("table-42"))
	assert.False(t, ValidSlug(""))
	assert.False(t, ValidSlug("Has Caps"))
	assert.False(t, ValidSlug("under_score"))
}

func TestGenerateNickname_IsValid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		assert.Nil(t, ValidateNickname(GenerateNickname(rng)))
	}
}
