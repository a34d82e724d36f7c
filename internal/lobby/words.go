package lobby

import (
	"math/rand"
	"strings"
	"unicode"

	"github.com/featherfall/exploding-chickens/internal/apperrors"
)

const maxNicknameLength = 20

// Slug word lists. Adjective-animal pairs read well in invite links and QR
// codes, unlike opaque room numbers.
var (
	slugAdjectives = []string{
		"brave", "clever", "crispy", "dapper", "feisty",
		"fluffy", "golden", "happy", "jumpy", "mellow",
		"nimble", "plucky", "quirky", "rowdy", "sleepy",
		"snappy", "spicy", "sunny", "wobbly", "zesty",
	}

	slugAnimals = []string{
		"chicken", "rooster", "hen", "chick", "gator",
		"otter", "badger", "ferret", "heron", "magpie",
		"marmot", "pelican", "possum", "puffin", "quokka",
		"raccoon", "stoat", "toucan", "walrus", "wombat",
	}
)

// Avatars players may pick from. The first entry is the unset placeholder
// and is never a valid choice.
var avatars = []string{
	"default.png",
	"bear.png", "bird.png", "cat.png", "dog.png",
	"fox.png", "frog.png", "koala.png", "lion.png",
	"owl.png", "panda.png", "rabbit.png", "tiger.png",
}

// Avatars lists the selectable avatar images.
func Avatars() []string {
	return avatars[1:]
}

// NewSlug builds a readable lobby slug like "plucky-walrus".
func NewSlug(rng *rand.Rand) string {
	adj := slugAdjectives[rng.Intn(len(slugAdjectives))]
	animal := slugAnimals[rng.Intn(len(slugAnimals))]
	return adj + "-" + animal
}

// newTableSuffix distinguishes the tables of one lobby.
func newTableSuffix(rng *rand.Rand) string {
	return slugAnimals[rng.Intn(len(slugAnimals))]
}

// GenerateNickname suggests a random nickname for players who skip the form.
func GenerateNickname(rng *rand.Rand) string {
	adj := slugAdjectives[rng.Intn(len(slugAdjectives))]
	animal := slugAnimals[rng.Intn(len(slugAnimals))]
	return capitalize(adj) + " " + capitalize(animal)
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

// ValidateNickname enforces the roster naming rules: non-empty, bounded,
// printable letters, digits and spaces only.
func ValidateNickname(nickname string) *apperrors.GameError {
	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" || trimmed != nickname {
		return apperrors.ErrPlayerName
	}
	if len([]rune(nickname)) > maxNicknameLength {
		return apperrors.ErrPlayerName
	}
	for _, r := range nickname {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
			return apperrors.ErrPlayerName
		}
	}
	return nil
}

// ValidateAvatar requires an explicit choice from the known set.
func ValidateAvatar(avatar string) *apperrors.GameError {
	for _, a := range Avatars() {
		if a == avatar {
			return nil
		}
	}
	return apperrors.ErrPlayerAvatar
}

// ValidSlug reports whether a candidate slug only carries link-safe runes.
func ValidSlug(slug string) bool {
	if slug == "" || len(slug) > 40 {
		return false
	}
	for _, r := range slug {
		if !unicode.IsLower(r) && !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}
