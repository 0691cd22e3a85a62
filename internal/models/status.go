package models

// Room statuses. A room starts in pending, moves to processing once its
// original image is uploaded and generation has started, and ends in
// completed or error. Terminal states are only left by an explicit
// regeneration run, which restarts the same sequence on the same room.
const (
	RoomStatusPending    = "pending"
	RoomStatusProcessing = "processing"
	RoomStatusCompleted  = "completed"
	RoomStatusError      = "error"
)

// Project statuses. Only draft is ever stored; the rest are derived from
// room statuses at read time so the batch orchestrator never has to keep
// an aggregate flag in sync.
const (
	ProjectStatusDraft      = "draft"
	ProjectStatusProcessing = "processing"
	ProjectStatusCompleted  = "completed"
	ProjectStatusError      = "error"
)

// ValidRoomTransition reports whether a room may move from one status to
// another. Re-entering processing from a terminal state is allowed: that
// is what a regeneration run does.
func ValidRoomTransition(from, to string) bool {
	switch to {
	case RoomStatusProcessing:
		return from == RoomStatusPending || from == RoomStatusCompleted || from == RoomStatusError
	case RoomStatusCompleted:
		return from == RoomStatusProcessing
	case RoomStatusError:
		// The original upload can fail before the processing write lands.
		return from == RoomStatusProcessing || from == RoomStatusPending
	default:
		return false
	}
}

// DeriveProjectStatus folds room statuses into the project aggregate:
// any room still in flight makes the project processing; once every room
// is terminal the project is completed, or error if nothing succeeded;
// a project whose rooms are all pending is still a draft.
func DeriveProjectStatus(roomStatuses []string) string {
	if len(roomStatuses) == 0 {
		return ProjectStatusDraft
	}

	var pending, processing, completed, failed int
	for _, s := range roomStatuses {
		switch s {
		case RoomStatusPending:
			pending++
		case RoomStatusProcessing:
			processing++
		case RoomStatusCompleted:
			completed++
		case RoomStatusError:
			failed++
		}
	}

	switch {
	case processing > 0:
		return ProjectStatusProcessing
	case pending == len(roomStatuses):
		return ProjectStatusDraft
	case pending > 0:
		// Some rooms finished while others were never started.
		return ProjectStatusProcessing
	case completed > 0:
		// Partial failures still count as completed; the failed rooms
		// stay visible through their own status and error message.
		return ProjectStatusCompleted
	default:
		return ProjectStatusError
	}
}
