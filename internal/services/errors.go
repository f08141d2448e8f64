package services

// Service errors
var (
	ErrRoomNotFound   = &ServiceError{Code: "room_not_found", Message: "room does not exist"}
	ErrPlayerNotFound = &ServiceError{Code: "player_not_found", Message: "player is not in the room"}
	ErrNameInUse      = &ServiceError{Code: "name_in_use", Message: "a player with that name is already online in the room"}
	ErrRoomFull       = &ServiceError{Code: "full", Message: "the room is full"}
	ErrAlreadyWinner  = &ServiceError{Code: "already_winner", Message: "a winner has already been declared"}
	ErrInvalidPattern = &ServiceError{Code: "invalid_pattern", Message: "the marked cells do not complete the active mode"}
	ErrModeRequired   = &ServiceError{Code: "mode_required", Message: "a game mode must be selected before starting"}
	ErrInvalidMode    = &ServiceError{Code: "invalid_mode", Message: "unknown game mode"}
	ErrNotHost        = &ServiceError{Code: "not_host", Message: "only the host may control the game"}
	ErrGameActive     = &ServiceError{Code: "game_active", Message: "the operation is not allowed while a game is running"}
	ErrGameInactive   = &ServiceError{Code: "game_inactive", Message: "no game is currently running"}
	ErrInvalidIndex   = &ServiceError{Code: "invalid_index", Message: "board index out of range"}
)

// ServiceError represents a typed service-level failure. Code is stable and
// machine readable; gateway and HTTP layers map it to their own error
// vocabularies.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}
