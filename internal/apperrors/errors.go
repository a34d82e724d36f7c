package apperrors

// Error codes sent over the wire. Not-found codes are terminal for the
// client session; validation codes are shown inline and never broadcast.
const (
	CodeGameNotFound  = "GAME-DNE"
	CodeLobbyNotFound = "LOBBY-DNE"
	CodePlayerName    = "PLYR-NAME"
	CodePlayerAvatar  = "PLYR-AVTR"
	CodeValidation    = "VALIDATION"
	CodeInternal      = "INTERNAL"
)

// GameError is the tagged failure returned by the engine and the lobby
// manager. It never crosses the network boundary as a raw error; handlers
// translate it into a *-error message for the requesting client.
type GameError struct {
	Code    string
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// Validation builds a validation error with an operation-specific message.
func Validation(msg string) *GameError {
	return &GameError{Code: CodeValidation, Message: msg}
}

// Internal marks a bug-signal error: logged server side, surfaced to the
// client as a generic failure.
func Internal(msg string) *GameError {
	return &GameError{Code: CodeInternal, Message: msg}
}

// Predefined errors shared across the engine, controller and lobby manager.
var (
	ErrGameNotFound  = &GameError{Code: CodeGameNotFound, Message: "game does not exist"}
	ErrLobbyNotFound = &GameError{Code: CodeLobbyNotFound, Message: "lobby does not exist"}
	ErrPlayerName    = &GameError{Code: CodePlayerName, Message: "nickname must be 1-20 letters, digits or spaces"}
	ErrPlayerAvatar  = &GameError{Code: CodePlayerAvatar, Message: "unknown avatar"}

	ErrGameNotStarted   = Validation("game has not started")
	ErrGameInProgress   = Validation("game is already in progress")
	ErrNotYourTurn      = Validation("not your turn")
	ErrCardNotInHand    = Validation("card is not in your hand")
	ErrInvalidTarget    = Validation("invalid target")
	ErrPlayerNotFound   = Validation("player does not exist")
	ErrPlayerDead       = Validation("player is out of the game")
	ErrNotExploding     = Validation("you are not exploding")
	ErrExploding        = Validation("resolve your exploding chicken first")
	ErrNoMatchingPair   = Validation("a matching pair is required")
	ErrTargetEmptyHand  = Validation("target player has no cards")
	ErrPackImported     = Validation("pack is already imported")
	ErrPackNotImported  = Validation("pack is not imported")
	ErrNotHost          = Validation("only the host can do that")
	ErrNoEligiblePlayer = Internal("no eligible player for next turn")
	ErrUnknownAction    = Internal("unknown card action")
)
