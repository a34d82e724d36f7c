package card

import (
	"github.com/google/uuid"
)

// Kind 定义卡牌的效果类型
type Kind string

const (
	KindAttack       Kind = "attack"
	KindDefuse       Kind = "defuse"
	KindChicken      Kind = "chicken"
	KindFavor        Kind = "favor"
	KindSeeTheFuture Kind = "seethefuture"
	KindShuffle      Kind = "shuffle"
	KindSkip         Kind = "skip"
	KindReverse      Kind = "reverse"

	// yolking_around 扩展包
	KindHotPotato     Kind = "hotpotato"
	KindScrambledEggs Kind = "scrambledeggs"
	KindSuperSkip     Kind = "superskip"
	KindSafetyDraw    Kind = "safetydraw"
	KindDrawBottom    Kind = "drawbottom"
	KindFavorGator    Kind = "favorgator"
	KindRandchick1    Kind = "randchick-1"
	KindRandchick2    Kind = "randchick-2"
	KindRandchick3    Kind = "randchick-3"
	KindRandchick4    Kind = "randchick-4"
)

// IsChicken reports whether drawing this kind starts an exploding sequence.
func (k Kind) IsChicken() bool {
	return k == KindChicken
}

// IsRandchick reports whether the kind needs a matching pair to be played.
func (k Kind) IsRandchick() bool {
	switch k {
	case KindRandchick1, KindRandchick2, KindRandchick3, KindRandchick4:
		return true
	}
	return false
}

// IsFavorClass reports whether playing the kind steals a card from a target.
func (k Kind) IsFavorClass() bool {
	return k == KindFavor || k == KindFavorGator || k.IsRandchick()
}

// Zone 定义卡牌所在的区域：牌堆、弃牌堆、出局区，或某个玩家的手牌
type Zone string

const (
	ZoneDrawDeck  Zone = "draw_deck"
	ZoneDiscard   Zone = "discard_deck"
	ZoneOutOfPlay Zone = "out_of_play"
)

// Hand returns the hand zone of a player.
func Hand(playerID string) Zone {
	return Zone(playerID)
}

// IsHand reports whether the zone is a player hand.
func (z Zone) IsHand() bool {
	switch z {
	case ZoneDrawDeck, ZoneDiscard, ZoneOutOfPlay:
		return false
	}
	return z != ""
}

// Pack 定义卡牌来源的牌组
type Pack string

const (
	PackBase          Pack = "base"
	PackYolkingAround Pack = "yolking_around"
)

// Card 定义一张牌。Position 在同一 Zone 内唯一且从 0 开始。
type Card struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	Pack     Pack   `json:"pack"`
	Zone     Zone   `json:"zone"`
	Position int    `json:"position"`

	// PlacedBy records who reinserted a chicken (defuse / hot potato audit).
	PlacedBy string `json:"placed_by,omitempty"`
}

// manifests 每个牌组的卡牌构成
var manifests = map[Pack]map[Kind]int{
	PackBase: {
		KindChicken:      5,
		KindDefuse:       6,
		KindAttack:       4,
		KindFavor:        4,
		KindSeeTheFuture: 5,
		KindShuffle:      4,
		KindSkip:         4,
		KindReverse:      4,
	},
	PackYolkingAround: {
		KindHotPotato:     1,
		KindScrambledEggs: 2,
		KindSuperSkip:     2,
		KindSafetyDraw:    2,
		KindDrawBottom:    3,
		KindFavorGator:    2,
		KindRandchick1:    2,
		KindRandchick2:    2,
		KindRandchick3:    2,
		KindRandchick4:    2,
	},
}

// Packs returns the known pack names, base first.
func Packs() []Pack {
	return []Pack{PackBase, PackYolkingAround}
}

// KnownPack reports whether the pack has a manifest.
func KnownPack(p Pack) bool {
	_, ok := manifests[p]
	return ok
}

// NewPack materializes the cards of a pack into the draw deck, positioned
// sequentially after offset.
func NewPack(p Pack, offset int) []*Card {
	manifest, ok := manifests[p]
	if !ok {
		return nil
	}

	cards := make([]*Card, 0, packSize(manifest))
	for kind, count := range manifest {
		for i := 0; i < count; i++ {
			cards = append(cards, &Card{
				ID:   uuid.New().String(),
				Kind: kind,
				Pack: p,
				Zone: ZoneDrawDeck,
			})
		}
	}

	// Map iteration order is random; pin positions deterministically by id
	// so repeated deals from the same card set are stable before shuffling.
	sortByID(cards)
	for i, c := range cards {
		c.Position = offset + i
	}
	return cards
}

func packSize(manifest map[Kind]int) int {
	n := 0
	for _, count := range manifest {
		n += count
	}
	return n
}
